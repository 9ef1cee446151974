package app

import (
	"context"
	"fmt"
	"strings"

	"campus-link/internal/config"
	"campus-link/internal/database/migration"
	"campus-link/internal/database/postgres"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// Bootstrap builds the runnable application: database, migrations, container,
// background workers, and the HTTP surface. The returned cleanup releases
// everything in reverse order.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	db, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect database: %w", err)
	}

	if err := (migration.Runner{}).Run(ctx, db.SQLDB()); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("run migrations: %w", err)
	}

	c, err := NewContainer(ctx, cfg, log, db)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	go c.Hub.Run()
	c.Dispatcher.Start(ctx)

	f := fiber.New(fiber.Config{AppName: cfg.App.AppName})
	c.Registry.Register(f)
	f.Get("/ws/notifications", c.WSHandler.HandleNotifications)

	cleanup := func() error {
		c.Dispatcher.Stop()
		c.Hub.Stop()
		return db.Close()
	}

	return &App{Fiber: f, Container: c}, cleanup, nil
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
