package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mwork/relay-api/internal/domain/auth"
	"github.com/mwork/relay-api/internal/domain/chat"
	"github.com/mwork/relay-api/internal/domain/friendship"
	"github.com/mwork/relay-api/internal/domain/moderation"
	"github.com/mwork/relay-api/internal/domain/relationships"
	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/jwt"
	"github.com/mwork/relay-api/internal/pkg/logger"
	pkgresponse "github.com/mwork/relay-api/internal/pkg/response"
)

// Handlers groups the HTTP handlers mounted under /api/v1.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Contacts   *relationships.Handler
	Friends    *friendship.Handler
	Chat       *chat.Handler
	Moderation *moderation.Handler
}

// RouterConfig carries the cross-cutting dependencies of the router.
type RouterConfig struct {
	JWT            *jwt.Service
	Gate           middleware.SessionGate
	AllowedOrigins []string
	Health         func(ctx context.Context) error
}

// NewRouter builds the HTTP router.
func NewRouter(h Handlers, cfg RouterConfig) http.Handler {
	authMiddleware := middleware.Auth(cfg.JWT, cfg.Gate)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Sentry)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	r.Get("/health", healthHandler(cfg.Health))

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", h.Auth.Routes(authMiddleware))
		r.Mount("/users", h.User.Routes(authMiddleware))
		r.Mount("/contacts", h.Contacts.Routes(authMiddleware))
		r.Mount("/friend-requests", h.Friends.Routes(authMiddleware))
		r.Mount("/chats", h.Chat.Routes(authMiddleware))
		r.Mount("/messages", h.Chat.MessageRoutes(authMiddleware))
		r.Mount("/reports", h.Moderation.Routes(authMiddleware))

		r.Route("/admin", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RequireAdmin())

			r.Get("/users", h.User.ListUsers)
			h.Moderation.RegisterAdminRoutes(r)
		})
	})

	return r
}

func healthHandler(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := check(ctx); err != nil {
				logger.FromContext(r.Context()).Error().Err(err).Msg("Health check failed")
				pkgresponse.Error(w, http.StatusServiceUnavailable, "UNAVAILABLE", "Database unavailable")
				return
			}
		}
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	}
}
