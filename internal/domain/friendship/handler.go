package friendship

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/errorhandler"
	"github.com/mwork/relay-api/internal/pkg/response"
	"github.com/mwork/relay-api/internal/pkg/validator"
)

// Handler handles friend request HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates friend request handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /friend-requests
// @Summary Send a friend request
// @Tags Friends
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body SendRequest true "Recipient"
// @Success 201 {object} response.Response{data=FriendRequestResponse}
// @Failure 400,404,409,422 {object} response.Response
// @Router /friend-requests [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	toUserID := uuid.MustParse(req.ToUserID)
	created, err := h.service.Send(r.Context(), middleware.GetUserID(r.Context()), toUserID)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, RequestFromEntity(created))
}

// Accept handles POST /friend-requests/{id}/accept
// @Summary Accept a friend request
// @Tags Friends
// @Produce json
// @Security BearerAuth
// @Param id path string true "Friend request ID"
// @Success 200 {object} response.Response{data=FriendRequestResponse}
// @Failure 400,404,409 {object} response.Response
// @Router /friend-requests/{id}/accept [post]
func (h *Handler) Accept(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid friend request ID")
		return
	}

	accepted, err := h.service.Accept(r.Context(), requestID, middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, RequestFromEntity(accepted))
}

// Reject handles POST /friend-requests/{id}/reject
func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	requestID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid friend request ID")
		return
	}

	if err := h.service.Reject(r.Context(), requestID, middleware.GetUserID(r.Context())); err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, map[string]string{"status": string(StatusRejected)})
}

// ListIncoming handles GET /friend-requests/incoming
func (h *Handler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListIncoming(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		items = append(items, IncomingFromEntity(req))
	}
	response.OK(w, items)
}

// ListOutgoing handles GET /friend-requests/outgoing
func (h *Handler) ListOutgoing(w http.ResponseWriter, r *http.Request) {
	requests, err := h.service.ListOutgoing(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]FriendRequestResponse, 0, len(requests))
	for _, req := range requests {
		items = append(items, OutgoingFromEntity(req))
	}
	response.OK(w, items)
}
