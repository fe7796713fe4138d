package moderation

import (
	"time"

	"github.com/google/uuid"
)

// FileReportRequest is the body of POST /reports
type FileReportRequest struct {
	MessageID string `json:"message_id" validate:"required,uuid"`
	Reason    string `json:"reason" validate:"required,max=500"`
}

// ResolveRequest is the body of POST /admin/reports/{id}/resolve
type ResolveRequest struct {
	Decision string `json:"decision" validate:"required,decision"`
	Days     int    `json:"days" validate:"omitempty,min=1,max=3650"`
}

type ReportResponse struct {
	ID            uuid.UUID  `json:"id"`
	MessageID     uuid.UUID  `json:"message_id"`
	ReporterID    uuid.UUID  `json:"reporter_id"`
	Reason        string     `json:"reason"`
	Status        Status     `json:"status"`
	AdminDecision *string    `json:"admin_decision,omitempty"`
	ResolvedAt    *time.Time `json:"resolved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`

	ReporterName     string     `json:"reporter_name,omitempty"`
	ReportedUserID   *uuid.UUID `json:"reported_user_id,omitempty"`
	ReportedUsername string     `json:"reported_username,omitempty"`
	MessageContent   string     `json:"message_content,omitempty"`
	MessageDeleted   bool       `json:"message_deleted,omitempty"`
}

func ReportFromEntity(r *Report) ReportResponse {
	resp := ReportResponse{
		ID:         r.ID,
		MessageID:  r.MessageID,
		ReporterID: r.ReporterID,
		Reason:     r.Reason,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
	if r.AdminDecision.Valid {
		decision := r.AdminDecision.String
		resp.AdminDecision = &decision
	}
	if r.ResolvedAt.Valid {
		at := r.ResolvedAt.Time
		resp.ResolvedAt = &at
	}
	return resp
}

func ReportFromView(v *ReportView) ReportResponse {
	resp := ReportFromEntity(&v.Report)
	resp.ReporterName = v.ReporterName
	reported := v.ReportedUserID
	resp.ReportedUserID = &reported
	resp.ReportedUsername = v.ReportedUsername
	resp.MessageContent = v.MessageContent
	resp.MessageDeleted = v.MessageDeleted
	return resp
}

func viewsToResponse(views []*ReportView) []ReportResponse {
	items := make([]ReportResponse, 0, len(views))
	for _, v := range views {
		items = append(items, ReportFromView(v))
	}
	return items
}
