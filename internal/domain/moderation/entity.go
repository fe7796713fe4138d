package moderation

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle state of a report
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// DecisionKind is the administrator's resolution choice
type DecisionKind string

const (
	DecisionDismiss        DecisionKind = "dismiss"
	DecisionBlockTemporary DecisionKind = "block_temporary"
	DecisionBlockPermanent DecisionKind = "block_permanent"
)

// Blocks reports whether the decision approves the report.
// Every kind other than dismiss blocks the reported account.
func (k DecisionKind) Blocks() bool {
	return k != DecisionDismiss
}

// Permanent reports whether the block has no expiry.
func (k DecisionKind) Permanent() bool {
	return k == DecisionBlockPermanent
}

// Summary is the audit note stored on the report.
func (k DecisionKind) Summary(days int) string {
	switch {
	case !k.Blocks():
		return "dismissed"
	case k.Permanent():
		return "blocked permanently"
	case days == 1:
		return "blocked for 1 day"
	default:
		return fmt.Sprintf("blocked for %d days", days)
	}
}

// Report is a complaint about a single message (matches reports table)
type Report struct {
	ID            uuid.UUID      `db:"id"`
	MessageID     uuid.UUID      `db:"message_id"`
	ReporterID    uuid.UUID      `db:"reporter_id"`
	Reason        string         `db:"reason"`
	Status        Status         `db:"status"`
	AdminDecision sql.NullString `db:"admin_decision"`
	ResolvedBy    uuid.NullUUID  `db:"resolved_by"`
	ResolvedAt    sql.NullTime   `db:"resolved_at"`
	CreatedAt     time.Time      `db:"created_at"`
}

// IsPending returns true until an administrator resolves the report.
func (r *Report) IsPending() bool {
	return r.Status == StatusPending
}

// ReportView is a report joined with its reporter, the reported account and
// the stored message content. Deleted messages are shown as stored.
type ReportView struct {
	Report
	ReporterName     string    `db:"reporter_name"`
	ReportedUserID   uuid.UUID `db:"reported_user_id"`
	ReportedUsername string    `db:"reported_username"`
	MessageContent   string    `db:"message_content"`
	MessageDeleted   bool      `db:"message_deleted"`
}
