package friendship

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns friend request router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(authMiddleware)

	r.Post("/", h.Send)
	r.Get("/incoming", h.ListIncoming)
	r.Get("/outgoing", h.ListOutgoing)
	r.Post("/{id}/accept", h.Accept)
	r.Post("/{id}/reject", h.Reject)

	return r
}
