package relationships

import (
	"time"

	"github.com/google/uuid"
)

// ContactEdge is one direction of the "is contact of" relation (matches contacts table)
type ContactEdge struct {
	OwnerID   uuid.UUID `db:"user_id"`
	ContactID uuid.UUID `db:"contact_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Contact is an edge joined with the contact's account.
type Contact struct {
	ID       uuid.UUID `db:"id"`
	Username string    `db:"username"`
	Since    time.Time `db:"since"`
}
