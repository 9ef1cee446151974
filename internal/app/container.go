package app

import (
	"context"
	"fmt"

	"campus-link/internal/ai/gemini"
	"campus-link/internal/config"
	"campus-link/internal/database"
	"campus-link/internal/delivery/http/handler"
	"campus-link/internal/delivery/http/middleware"
	"campus-link/internal/delivery/http/routes"
	v1 "campus-link/internal/delivery/http/routes/v1"
	"campus-link/internal/dispatch"
	"campus-link/internal/infrastructure/cache"
	"campus-link/internal/pkg/jwt"
	"campus-link/internal/repository"
	"campus-link/internal/usecase"
	"campus-link/internal/ws"

	"go.uber.org/zap"
)

// Container wires every layer together. Construction is eager: a dependency
// that cannot be built fails startup instead of the first request.
type Container struct {
	Config config.Config
	Logger *zap.Logger

	DB         database.DB
	Cache      *cache.Redis
	Hub        *ws.Hub
	WSHandler  *ws.Handler
	Dispatcher *dispatch.Dispatcher

	Registry *routes.Registry
}

func NewContainer(ctx context.Context, cfg config.Config, log *zap.Logger, db database.DB) (*Container, error) {
	redisCache := cache.NewRedis(log)

	profileRepo := repository.NewPostgresProfileRepository(db)
	postRepo := repository.NewPostgresPostRepository(db)
	projectRepo := repository.NewPostgresProjectRepository(db)
	eventRepo := repository.NewPostgresEventRepository(db)
	matchRepo := repository.NewPostgresMatchRepository(db)
	recommendationRepo := repository.NewPostgresRecommendationRepository(db)
	notificationRepo := repository.NewPostgresNotificationRepository(db)

	jwtSvc := jwt.NewHMACService(
		cfg.Auth.AccessSecret,
		cfg.Auth.RefreshSecret,
		cfg.Auth.AccessExpiresIn,
		cfg.Auth.RefreshExpiresIn,
	)

	hub := ws.NewHub(log)
	wsHandler := ws.NewHandler(hub, jwtSvc, log)

	dispatcher := dispatch.NewDispatcher(2, 256, log)

	var evaluator usecase.PairEvaluator
	if cfg.Match.AIEnabled {
		client, err := gemini.NewClient(ctx, cfg.Match.GeminiAPIKey, cfg.Match.GeminiModel, cfg.Match.AITimeout)
		if err != nil {
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		evaluator = gemini.NewPairAnalyzer(client, log)
	}

	fetcher := usecase.NewEnhancedDataFetcher(profileRepo, postRepo, projectRepo, redisCache, log)
	notifier := usecase.NewMatchNotifier(notificationRepo, profileRepo, eventRepo, hub, log)
	emitter := dispatch.NewAsyncEmitter(dispatcher, notifier)

	matchmakingUC := usecase.NewMatchmakingUsecase(
		eventRepo, matchRepo, fetcher, evaluator, emitter, redisCache, log, cfg.Match.Threshold,
	)
	recommendationUC := usecase.NewRecommendationUsecase(projectRepo, profileRepo, recommendationRepo, log)
	notificationUC := usecase.NewNotificationUsecase(notificationRepo)
	authUC := usecase.NewAuthUsecase(profileRepo, jwtSvc, log)

	registry := routes.NewRegistry(
		handler.NewHealthHandler(cfg.App.AppName),
		v1.Handlers{
			Auth:            handler.NewAuthHandler(authUC),
			Matchmaking:     handler.NewMatchmakingHandler(matchmakingUC, dispatcher),
			Recommendations: handler.NewRecommendationHandler(recommendationUC),
			Notifications:   handler.NewNotificationHandler(notificationUC),
		},
		middleware.NewAuthMiddleware(jwtSvc),
		middleware.NewErrorMiddleware(log),
		middleware.NewAccessLogMiddleware(log),
	)

	return &Container{
		Config:     cfg,
		Logger:     log,
		DB:         db,
		Cache:      redisCache,
		Hub:        hub,
		WSHandler:  wsHandler,
		Dispatcher: dispatcher,
		Registry:   registry,
	}, nil
}
