package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/errorhandler"
	"github.com/mwork/relay-api/internal/pkg/response"
	"github.com/mwork/relay-api/internal/pkg/validator"
)

// Handler handles chat HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates chat handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /chats
// @Summary List my chats
// @Tags Chat
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]ChatResponse}
// @Router /chats [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	chats, err := h.service.ListForUser(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]ChatResponse, 0, len(chats))
	for _, c := range chats {
		items = append(items, ChatFromEntity(c))
	}
	response.OK(w, items)
}

// CreatePrivate handles POST /chats/private
// @Summary Start a private chat
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreatePrivateRequest true "Peer"
// @Success 201 {object} response.Response{data=ChatResponse}
// @Failure 400,404,422 {object} response.Response
// @Router /chats/private [post]
func (h *Handler) CreatePrivate(w http.ResponseWriter, r *http.Request) {
	var req CreatePrivateRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	chat, err := h.service.CreatePrivateChat(r.Context(), middleware.GetUserID(r.Context()), uuid.MustParse(req.UserID))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, ChatFromEntity(chat))
}

// CreateGroup handles POST /chats/group
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req CreateGroupRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.MemberIDs))
	for _, id := range req.MemberIDs {
		memberIDs = append(memberIDs, uuid.MustParse(id))
	}

	chat, err := h.service.CreateGroupChat(r.Context(), req.Name, middleware.GetUserID(r.Context()), memberIDs)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, ChatFromEntity(chat))
}

// ListMessages handles GET /chats/{id}/messages
func (h *Handler) ListMessages(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid chat ID")
		return
	}

	messages, err := h.service.ListMessages(r.Context(), chatID, middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	items := make([]MessageResponse, 0, len(messages))
	for _, m := range messages {
		items = append(items, MessageFromEntity(m))
	}
	response.OK(w, items)
}

// SendMessage handles POST /chats/{id}/messages
// @Summary Send a message
// @Tags Chat
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Chat ID"
// @Param request body SendMessageRequest true "Message"
// @Success 201 {object} response.Response{data=MessageResponse}
// @Failure 400,403,404,422 {object} response.Response
// @Router /chats/{id}/messages [post]
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	chatID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid chat ID")
		return
	}

	var req SendMessageRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	msg, err := h.service.SendMessage(r.Context(), chatID, middleware.GetUserID(r.Context()), req.Content)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, MessageFromEntity(msg))
}

// DeleteMessage handles DELETE /messages/{id}
func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	messageID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid message ID")
		return
	}

	if err := h.service.DeleteMessage(r.Context(), messageID, middleware.GetUserID(r.Context())); err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.NoContent(w)
}
