package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns account routes for authenticated users
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)
	r.Get("/search", h.Search)
	return r
}
