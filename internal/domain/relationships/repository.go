package relationships

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
)

// Repository defines contact graph data access interface
type Repository interface {
	// AddEdge inserts owner->contact; an existing edge is left untouched.
	AddEdge(ctx context.Context, ownerID, contactID uuid.UUID) error
	// Connected reports whether an edge exists in either direction.
	Connected(ctx context.Context, a, b uuid.UUID) (bool, error)
	ListContacts(ctx context.Context, ownerID uuid.UUID) ([]*Contact, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new contact graph repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) AddEdge(ctx context.Context, ownerID, contactID uuid.UUID) error {
	query := `
		INSERT INTO contacts (user_id, contact_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, contact_id) DO NOTHING
	`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, ownerID, contactID); err != nil {
		return apperr.Persistence("contact add edge", err)
	}
	return nil
}

func (r *repository) Connected(ctx context.Context, a, b uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM contacts
			WHERE (user_id = $1 AND contact_id = $2) OR (user_id = $2 AND contact_id = $1)
		)
	`
	var exists bool
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, a, b); err != nil {
		return false, apperr.Persistence("contact exists", err)
	}
	return exists, nil
}

func (r *repository) ListContacts(ctx context.Context, ownerID uuid.UUID) ([]*Contact, error) {
	query := `
		SELECT u.id, u.username, c.created_at AS since
		FROM contacts c
		JOIN users u ON u.id = c.contact_id
		WHERE c.user_id = $1
		ORDER BY u.username
	`
	contacts := []*Contact{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &contacts, query, ownerID); err != nil {
		return nil, apperr.Persistence("contact list", err)
	}
	return contacts, nil
}
