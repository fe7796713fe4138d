package chat

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
)

// Repository defines chat data access interface
type Repository interface {
	// Chats
	CreateChat(ctx context.Context, chat *Chat) error
	GetChat(ctx context.Context, id uuid.UUID) (*Chat, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error)

	// Members
	AddMember(ctx context.Context, chatID, userID uuid.UUID) error
	IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error)
	ListMembers(ctx context.Context, chatIDs []uuid.UUID) ([]*Member, error)

	// Messages
	CreateMessage(ctx context.Context, msg *Message) error
	GetMessage(ctx context.Context, id uuid.UUID) (*Message, error)
	ListMessages(ctx context.Context, chatID uuid.UUID) ([]*Message, error)
	LastMessages(ctx context.Context, chatIDs []uuid.UUID) ([]*Message, error)
	SoftDeleteMessage(ctx context.Context, id, senderID uuid.UUID) (bool, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new chat repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateChat(ctx context.Context, chat *Chat) error {
	query := `
		INSERT INTO chats (id, name, is_group, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		chat.ID, chat.Name, chat.IsGroup, chat.CreatedBy, chat.CreatedAt,
	)
	if err != nil {
		return apperr.Persistence("chat create", err)
	}
	return nil
}

func (r *repository) GetChat(ctx context.Context, id uuid.UUID) (*Chat, error) {
	query := `SELECT id, name, is_group, created_by, created_at FROM chats WHERE id = $1`
	var chat Chat
	if err := database.Conn(ctx, r.db).GetContext(ctx, &chat, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence("chat get", err)
	}
	return &chat, nil
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error) {
	query := `
		SELECT c.id, c.name, c.is_group, c.created_by, c.created_at
		FROM chats c
		JOIN chat_participants p ON p.chat_id = c.id
		WHERE p.user_id = $1
		ORDER BY c.created_at DESC
	`
	chats := []*Chat{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &chats, query, userID); err != nil {
		return nil, apperr.Persistence("chat list by user", err)
	}
	return chats, nil
}

// AddMember is idempotent: adding an existing member is a no-op.
func (r *repository) AddMember(ctx context.Context, chatID, userID uuid.UUID) error {
	query := `
		INSERT INTO chat_participants (chat_id, user_id, joined_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (chat_id, user_id) DO NOTHING
	`
	if _, err := database.Conn(ctx, r.db).ExecContext(ctx, query, chatID, userID); err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrMemberNotFound
		}
		return apperr.Persistence("chat add member", err)
	}
	return nil
}

func (r *repository) IsMember(ctx context.Context, chatID, userID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM chat_participants WHERE chat_id = $1 AND user_id = $2)`
	var exists bool
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, chatID, userID); err != nil {
		return false, apperr.Persistence("chat is member", err)
	}
	return exists, nil
}

func (r *repository) ListMembers(ctx context.Context, chatIDs []uuid.UUID) ([]*Member, error) {
	members := []*Member{}
	if len(chatIDs) == 0 {
		return members, nil
	}
	query := `
		SELECT p.chat_id, p.user_id, u.username, p.joined_at
		FROM chat_participants p
		JOIN users u ON u.id = p.user_id
		WHERE p.chat_id = ANY($1)
		ORDER BY p.joined_at, u.username
	`
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &members, query, pq.Array(uuidStrings(chatIDs))); err != nil {
		return nil, apperr.Persistence("chat list members", err)
	}
	return members, nil
}

const messageColumns = `m.id, m.chat_id, m.sender_id, u.username AS sender_name, m.content, m.is_deleted, m.deleted_at, m.created_at`

func (r *repository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (id, chat_id, sender_id, content, is_deleted, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5)
	`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		msg.ID, msg.ChatID, msg.SenderID, msg.Content, msg.CreatedAt,
	)
	if err != nil {
		return apperr.Persistence("message create", err)
	}
	return nil
}

// GetMessage returns the message whether or not it is deleted.
func (r *repository) GetMessage(ctx context.Context, id uuid.UUID) (*Message, error) {
	query := `SELECT ` + messageColumns + ` FROM messages m JOIN users u ON u.id = m.sender_id WHERE m.id = $1`
	var msg Message
	if err := database.Conn(ctx, r.db).GetContext(ctx, &msg, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence("message get", err)
	}
	return &msg, nil
}

func (r *repository) ListMessages(ctx context.Context, chatID uuid.UUID) ([]*Message, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = $1
		ORDER BY m.created_at ASC
	`
	messages := []*Message{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &messages, query, chatID); err != nil {
		return nil, apperr.Persistence("message list", err)
	}
	return messages, nil
}

// LastMessages returns the newest non-deleted message of each chat that has one.
func (r *repository) LastMessages(ctx context.Context, chatIDs []uuid.UUID) ([]*Message, error) {
	messages := []*Message{}
	if len(chatIDs) == 0 {
		return messages, nil
	}
	query := `
		SELECT DISTINCT ON (m.chat_id) ` + messageColumns + `
		FROM messages m
		JOIN users u ON u.id = m.sender_id
		WHERE m.chat_id = ANY($1) AND m.is_deleted = FALSE
		ORDER BY m.chat_id, m.created_at DESC
	`
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &messages, query, pq.Array(uuidStrings(chatIDs))); err != nil {
		return nil, apperr.Persistence("message last per chat", err)
	}
	return messages, nil
}

// SoftDeleteMessage flags the sender's message as deleted. It reports false
// when the message is missing, belongs to someone else, or is already deleted.
func (r *repository) SoftDeleteMessage(ctx context.Context, id, senderID uuid.UUID) (bool, error) {
	query := `
		UPDATE messages
		SET is_deleted = TRUE, deleted_at = NOW()
		WHERE id = $1 AND sender_id = $2 AND is_deleted = FALSE
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id, senderID)
	if err != nil {
		return false, apperr.Persistence("message soft delete", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Persistence("message soft delete", err)
	}
	return n == 1, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
