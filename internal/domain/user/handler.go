package user

import (
	"net/http"

	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/errorhandler"
	"github.com/mwork/relay-api/internal/pkg/response"
)

// Handler handles account HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates user handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Search handles GET /users/search?q=
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	users, err := h.service.Search(r.Context(), r.URL.Query().Get("q"), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]SummaryResponse, 0, len(users))
	for _, u := range users {
		items = append(items, NewSummaryResponse(u))
	}
	response.OK(w, items)
}

// ListUsers handles GET /admin/users
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	now := h.service.Now()
	items := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, NewAdminUserResponse(u, now))
	}
	response.OK(w, items)
}
