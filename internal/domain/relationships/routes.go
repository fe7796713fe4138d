package relationships

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns contacts router
func (h *Handler) Routes(authMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	// All routes require authentication
	r.Use(authMiddleware)

	// Read only: contacts are formed by accepting friend requests
	r.Get("/", h.ListContacts)

	return r
}
