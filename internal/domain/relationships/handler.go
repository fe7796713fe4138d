package relationships

import (
	"net/http"

	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/errorhandler"
	"github.com/mwork/relay-api/internal/pkg/response"
)

// Handler handles contact HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates contact handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// ListContacts handles GET /contacts
// @Summary List contacts
// @Description Accounts connected to the caller through an accepted friend request.
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]ContactResponse}
// @Failure 500 {object} response.Response
// @Router /contacts [get]
func (h *Handler) ListContacts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	contacts, err := h.service.ListContacts(r.Context(), userID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]ContactResponse, 0, len(contacts))
	for _, c := range contacts {
		items = append(items, ContactFromEntity(c))
	}
	response.OK(w, items)
}
