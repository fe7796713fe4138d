package friendship

import (
	"time"

	"github.com/google/uuid"
)

// Status represents friend request status
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusAccepted Status = "ACCEPTED"
	StatusRejected Status = "REJECTED"
)

// FriendRequest represents a friend request (matches friend_requests table)
type FriendRequest struct {
	ID         uuid.UUID `db:"id"`
	FromUserID uuid.UUID `db:"from_user_id"`
	ToUserID   uuid.UUID `db:"to_user_id"`
	Status     Status    `db:"status"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// IsPending returns true while the request can still be accepted or rejected
func (r *FriendRequest) IsPending() bool {
	return r.Status == StatusPending
}

// IncomingRequest is a request joined with its sender's username.
type IncomingRequest struct {
	FriendRequest
	FromUsername string `db:"from_username"`
}

// OutgoingRequest is a request joined with its recipient's username.
type OutgoingRequest struct {
	FriendRequest
	ToUsername string `db:"to_username"`
}
