package routes

import (
	"campus-link/internal/delivery/http/handler"
	"campus-link/internal/delivery/http/middleware"
	v1 "campus-link/internal/delivery/http/routes/v1"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	health   *handler.HealthHandler
	v1       v1.Handlers
	authMw   *middleware.AuthMiddleware
	errMw    *middleware.ErrorMiddleware
	accessMw *middleware.AccessLogMiddleware
}

func NewRegistry(
	health *handler.HealthHandler,
	handlers v1.Handlers,
	authMw *middleware.AuthMiddleware,
	errMw *middleware.ErrorMiddleware,
	accessMw *middleware.AccessLogMiddleware,
) *Registry {
	return &Registry{health: health, v1: handlers, authMw: authMw, errMw: errMw, accessMw: accessMw}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	app.Use(r.accessMw.Middleware())
	app.Use(r.errMw.Middleware())

	r.health.RegisterRoutes(app)

	api := app.Group("/api")
	v1.Register(api.Group("/v1"), r.v1, r.authMw)
}
