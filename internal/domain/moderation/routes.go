package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns report routes for authenticated users
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.File)
	r.Get("/mine", h.ListMine)

	return r
}

// RegisterAdminRoutes adds admin-only moderation routes to an already
// authenticated and admin-gated router.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/reports", h.ListPending)
	r.Post("/reports/{id}/resolve", h.Resolve)
	r.Post("/users/{id}/unblock", h.Unblock)
}
