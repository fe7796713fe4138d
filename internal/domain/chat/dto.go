package chat

import (
	"time"

	"github.com/google/uuid"
)

// CreatePrivateRequest is the body of POST /chats/private
type CreatePrivateRequest struct {
	UserID string `json:"user_id" validate:"required,uuid"`
}

// CreateGroupRequest is the body of POST /chats/group
type CreateGroupRequest struct {
	Name      string   `json:"name" validate:"required,max=100"`
	MemberIDs []string `json:"member_ids" validate:"dive,uuid"`
}

// SendMessageRequest is the body of POST /chats/{id}/messages
type SendMessageRequest struct {
	Content string `json:"content" validate:"required,max=4000"`
}

type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username,omitempty"`
}

type MessageResponse struct {
	ID         uuid.UUID `json:"id"`
	ChatID     uuid.UUID `json:"chat_id"`
	SenderID   uuid.UUID `json:"sender_id"`
	SenderName string    `json:"sender_name,omitempty"`
	Content    string    `json:"content"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  time.Time `json:"created_at"`
}

type ChatResponse struct {
	ID          uuid.UUID        `json:"id"`
	Name        *string          `json:"name,omitempty"`
	IsGroup     bool             `json:"is_group"`
	CreatedBy   uuid.UUID        `json:"created_by"`
	CreatedAt   time.Time        `json:"created_at"`
	Members     []MemberResponse `json:"members"`
	LastMessage *MessageResponse `json:"last_message,omitempty"`
}

// MessageFromEntity renders a message. Deleted content is always replaced.
func MessageFromEntity(m *Message) MessageResponse {
	m = m.Redacted()
	return MessageResponse{
		ID:         m.ID,
		ChatID:     m.ChatID,
		SenderID:   m.SenderID,
		SenderName: m.SenderName,
		Content:    m.Content,
		IsDeleted:  m.IsDeleted,
		CreatedAt:  m.CreatedAt,
	}
}

func ChatFromEntity(c *Chat) ChatResponse {
	resp := ChatResponse{
		ID:        c.ID,
		IsGroup:   c.IsGroup,
		CreatedBy: c.CreatedBy,
		CreatedAt: c.CreatedAt,
		Members:   make([]MemberResponse, 0, len(c.Members)),
	}
	if c.Name.Valid {
		name := c.Name.String
		resp.Name = &name
	}
	for _, m := range c.Members {
		resp.Members = append(resp.Members, MemberResponse{UserID: m.UserID, Username: m.Username})
	}
	if c.LastMessage != nil {
		last := MessageFromEntity(c.LastMessage)
		resp.LastMessage = &last
	}
	return resp
}
