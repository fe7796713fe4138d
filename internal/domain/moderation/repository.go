package moderation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
)

// Repository defines report data access interface
type Repository interface {
	Create(ctx context.Context, report *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Report, error)
	Resolve(ctx context.Context, id uuid.UUID, status Status, decision string, adminID uuid.UUID, at time.Time) (bool, error)
	ListPending(ctx context.Context) ([]*ReportView, error)
	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*ReportView, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const reportColumns = `r.id, r.message_id, r.reporter_id, r.reason, r.status, r.admin_decision, r.resolved_by, r.resolved_at, r.created_at`

const reportViewQuery = `
	SELECT ` + reportColumns + `,
		reporter.username AS reporter_name,
		m.sender_id AS reported_user_id,
		sender.username AS reported_username,
		m.content AS message_content,
		m.is_deleted AS message_deleted
	FROM reports r
	JOIN users reporter ON reporter.id = r.reporter_id
	JOIN messages m ON m.id = r.message_id
	JOIN users sender ON sender.id = m.sender_id
`

func (r *repository) Create(ctx context.Context, report *Report) error {
	query := `
		INSERT INTO reports (id, message_id, reporter_id, reason, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		report.ID, report.MessageID, report.ReporterID, report.Reason, report.Status, report.CreatedAt,
	)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrMessageNotFound
		}
		return apperr.Persistence("report create", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.get(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1`, id)
}

// GetByIDForUpdate locks the report row until the surrounding transaction ends.
func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Report, error) {
	return r.get(ctx, `SELECT `+reportColumns+` FROM reports r WHERE r.id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*Report, error) {
	var report Report
	if err := database.Conn(ctx, r.db).GetContext(ctx, &report, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence("report get", err)
	}
	return &report, nil
}

// Resolve moves a PENDING report to a terminal status. It reports false when
// the report is missing or already resolved.
func (r *repository) Resolve(ctx context.Context, id uuid.UUID, status Status, decision string, adminID uuid.UUID, at time.Time) (bool, error) {
	query := `
		UPDATE reports
		SET status = $2, admin_decision = $3, resolved_by = $4, resolved_at = $5
		WHERE id = $1 AND status = 'PENDING'
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id, status, decision, adminID, at)
	if err != nil {
		return false, apperr.Persistence("report resolve", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Persistence("report resolve", err)
	}
	return n == 1, nil
}

func (r *repository) ListPending(ctx context.Context) ([]*ReportView, error) {
	query := reportViewQuery + ` WHERE r.status = 'PENDING' ORDER BY r.created_at DESC`
	reports := []*ReportView{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &reports, query); err != nil {
		return nil, apperr.Persistence("report list pending", err)
	}
	return reports, nil
}

func (r *repository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*ReportView, error) {
	query := reportViewQuery + ` WHERE r.reporter_id = $1 ORDER BY r.created_at DESC`
	reports := []*ReportView{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &reports, query, reporterID); err != nil {
		return nil, apperr.Persistence("report list by reporter", err)
	}
	return reports, nil
}
