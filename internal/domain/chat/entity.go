package chat

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// DeletedPlaceholder replaces the content of soft-deleted messages on read paths.
const DeletedPlaceholder = "Message deleted"

// Chat represents a private (two members) or group chat (matches chats table)
type Chat struct {
	ID        uuid.UUID      `db:"id"`
	Name      sql.NullString `db:"name"`
	IsGroup   bool           `db:"is_group"`
	CreatedBy uuid.UUID      `db:"created_by"`
	CreatedAt time.Time      `db:"created_at"`

	// Hydrated by ListForUser
	Members     []*Member `db:"-"`
	LastMessage *Message  `db:"-"`
}

// HasMember checks if user is in this chat. Only meaningful once Members is hydrated.
func (c *Chat) HasMember(userID uuid.UUID) bool {
	for _, m := range c.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// Member is a chat participant joined with the account's username
type Member struct {
	ChatID   uuid.UUID `db:"chat_id"`
	UserID   uuid.UUID `db:"user_id"`
	Username string    `db:"username"`
	JoinedAt time.Time `db:"joined_at"`
}

// Message represents a chat message. Deleted messages keep their content in
// storage; IsDeleted is never reset.
type Message struct {
	ID         uuid.UUID    `db:"id"`
	ChatID     uuid.UUID    `db:"chat_id"`
	SenderID   uuid.UUID    `db:"sender_id"`
	SenderName string       `db:"sender_name"`
	Content    string       `db:"content"`
	IsDeleted  bool         `db:"is_deleted"`
	DeletedAt  sql.NullTime `db:"deleted_at"`
	CreatedAt  time.Time    `db:"created_at"`
}

// Redacted returns a copy safe for members to read.
func (m *Message) Redacted() *Message {
	cp := *m
	if cp.IsDeleted {
		cp.Content = DeletedPlaceholder
	}
	return &cp
}
