package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns chat router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Get("/", h.List)
	r.Post("/private", h.CreatePrivate)
	r.Post("/group", h.CreateGroup)

	r.Route("/{id}/messages", func(r chi.Router) {
		r.Get("/", h.ListMessages)
		r.Post("/", h.SendMessage)
	})

	return r
}

// MessageRoutes returns router for message-level operations
func (h *Handler) MessageRoutes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Delete("/{id}", h.DeleteMessage)

	return r
}
