package relationships

import (
	"time"

	"github.com/google/uuid"
)

// ContactResponse represents a contact in API responses
type ContactResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Since    time.Time `json:"since"`
}

func ContactFromEntity(c *Contact) ContactResponse {
	return ContactResponse{ID: c.ID, Username: c.Username, Since: c.Since}
}
