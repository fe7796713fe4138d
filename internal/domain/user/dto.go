package user

import (
	"time"

	"github.com/google/uuid"
)

// SummaryResponse is the public view of an account.
type SummaryResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

func NewSummaryResponse(u *User) SummaryResponse {
	return SummaryResponse{ID: u.ID, Username: u.Username}
}

// AdminUserResponse is the administrator view of an account.
type AdminUserResponse struct {
	ID               uuid.UUID  `json:"id"`
	Username         string     `json:"username"`
	Role             Role       `json:"role"`
	IsBlocked        bool       `json:"is_blocked"`
	BlockedUntil     *time.Time `json:"blocked_until,omitempty"`
	CurrentlyBlocked bool       `json:"currently_blocked"`
	CreatedAt        time.Time  `json:"created_at"`
}

func NewAdminUserResponse(u *User, now time.Time) AdminUserResponse {
	state := u.BlockState()
	return AdminUserResponse{
		ID:               u.ID,
		Username:         u.Username,
		Role:             u.Role,
		IsBlocked:        state.Blocked,
		BlockedUntil:     state.Until,
		CurrentlyBlocked: state.ActiveAt(now),
		CreatedAt:        u.CreatedAt,
	}
}
