package moderation

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/middleware"
	"github.com/mwork/relay-api/internal/pkg/errorhandler"
	"github.com/mwork/relay-api/internal/pkg/response"
	"github.com/mwork/relay-api/internal/pkg/validator"
)

// Handler handles moderation HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates moderation handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func principal(r *http.Request) user.Principal {
	return user.Principal{
		ID:   middleware.GetUserID(r.Context()),
		Role: user.Role(middleware.GetRole(r.Context())),
	}
}

// File reports a message
// POST /reports
func (h *Handler) File(w http.ResponseWriter, r *http.Request) {
	var req FileReportRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	report, err := h.service.File(r.Context(), uuid.MustParse(req.MessageID), middleware.GetUserID(r.Context()), req.Reason)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.Created(w, ReportFromEntity(report))
}

// ListMine returns reports filed by the caller
// GET /reports/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListMine(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, viewsToResponse(reports))
}

// ListPending returns unresolved reports (admin)
// GET /admin/reports
func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListPending(r.Context(), principal(r))
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}
	response.OK(w, viewsToResponse(reports))
}

// Resolve applies an admin decision to a report
// POST /admin/reports/{id}/resolve
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid report ID")
		return
	}

	var req ResolveRequest
	if err := response.DecodeJSON(r.Body, &req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	if errs := validator.Validate(req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	report, err := h.service.Resolve(r.Context(), principal(r), reportID, DecisionKind(req.Decision), req.Days)
	if err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, ReportFromEntity(report))
}

// Unblock clears an account's block state (admin)
// POST /admin/users/{id}/unblock
func (h *Handler) Unblock(w http.ResponseWriter, r *http.Request) {
	accountID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		response.BadRequest(w, "Invalid user ID")
		return
	}

	if err := h.service.Unblock(r.Context(), principal(r), accountID); err != nil {
		errorhandler.HandleError(r.Context(), w, err)
		return
	}

	response.OK(w, map[string]string{"message": "User unblocked"})
}
