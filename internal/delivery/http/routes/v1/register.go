package v1

import (
	"campus-link/internal/delivery/http/handler"
	"campus-link/internal/delivery/http/middleware"

	"github.com/gofiber/fiber/v3"
)

// Handlers groups everything the v1 API surface exposes.
type Handlers struct {
	Auth            *handler.AuthHandler
	Matchmaking     *handler.MatchmakingHandler
	Recommendations *handler.RecommendationHandler
	Notifications   *handler.NotificationHandler
}

func Register(r fiber.Router, h Handlers, authMw *middleware.AuthMiddleware) {
	if r == nil {
		return
	}

	if h.Auth != nil {
		h.Auth.RegisterRoutes(r.Group("/auth"))
	}

	protected := r.Group("", authMw.Middleware())
	if h.Matchmaking != nil {
		h.Matchmaking.RegisterRoutes(protected)
	}
	if h.Recommendations != nil {
		h.Recommendations.RegisterRoutes(protected)
	}
	if h.Notifications != nil {
		h.Notifications.RegisterRoutes(protected)
	}
}
