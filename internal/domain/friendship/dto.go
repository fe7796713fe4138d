package friendship

import (
	"time"

	"github.com/google/uuid"
)

// SendRequest is the body of POST /friend-requests
type SendRequest struct {
	ToUserID string `json:"to_user_id" validate:"required,uuid"`
}

// FriendRequestResponse represents a friend request in API responses
type FriendRequestResponse struct {
	ID           uuid.UUID `json:"id"`
	FromUserID   uuid.UUID `json:"from_user_id"`
	FromUsername string    `json:"from_username,omitempty"`
	ToUserID     uuid.UUID `json:"to_user_id"`
	ToUsername   string    `json:"to_username,omitempty"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

func RequestFromEntity(r *FriendRequest) FriendRequestResponse {
	return FriendRequestResponse{
		ID:         r.ID,
		FromUserID: r.FromUserID,
		ToUserID:   r.ToUserID,
		Status:     r.Status,
		CreatedAt:  r.CreatedAt,
	}
}

func IncomingFromEntity(r *IncomingRequest) FriendRequestResponse {
	resp := RequestFromEntity(&r.FriendRequest)
	resp.FromUsername = r.FromUsername
	return resp
}

func OutgoingFromEntity(r *OutgoingRequest) FriendRequestResponse {
	resp := RequestFromEntity(&r.FriendRequest)
	resp.ToUsername = r.ToUsername
	return resp
}
