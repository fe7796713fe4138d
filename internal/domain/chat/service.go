package chat

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/database"
	"github.com/mwork/relay-api/internal/pkg/logger"
)

const maxMessageLength = 4000

// AccountLookup resolves accounts by id.
type AccountLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service handles chat business logic
type Service struct {
	repo     Repository
	accounts AccountLookup
	tx       database.Transactor
	now      func() time.Time
}

// NewService creates chat service
func NewService(repo Repository, accounts AccountLookup, tx database.Transactor) *Service {
	return &Service{
		repo:     repo,
		accounts: accounts,
		tx:       tx,
		now:      time.Now,
	}
}

// CreatePrivateChat creates a two-member chat. Calling it twice for the same
// pair creates two independent chats.
func (s *Service) CreatePrivateChat(ctx context.Context, userA, userB uuid.UUID) (*Chat, error) {
	if userA == userB {
		return nil, ErrCannotChatSelf
	}
	if err := s.requireAccount(ctx, userB); err != nil {
		return nil, err
	}

	chat := &Chat{
		ID:        uuid.New(),
		IsGroup:   false,
		CreatedBy: userA,
		CreatedAt: s.now().UTC(),
	}
	if err := s.create(ctx, chat, []uuid.UUID{userA, userB}); err != nil {
		return nil, err
	}
	return chat, nil
}

// CreateGroupChat creates a group chat with the creator and memberIDs.
// The creator and repeated ids in memberIDs are collapsed.
func (s *Service) CreateGroupChat(ctx context.Context, name string, creatorID uuid.UUID, memberIDs []uuid.UUID) (*Chat, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrGroupNameRequired
	}

	members := []uuid.UUID{creatorID}
	seen := map[uuid.UUID]bool{creatorID: true}
	for _, id := range memberIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		if err := s.requireAccount(ctx, id); err != nil {
			return nil, err
		}
		members = append(members, id)
	}

	chat := &Chat{
		ID:        uuid.New(),
		Name:      sql.NullString{String: name, Valid: true},
		IsGroup:   true,
		CreatedBy: creatorID,
		CreatedAt: s.now().UTC(),
	}
	if err := s.create(ctx, chat, members); err != nil {
		return nil, err
	}
	return chat, nil
}

func (s *Service) create(ctx context.Context, chat *Chat, members []uuid.UUID) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.repo.CreateChat(ctx, chat); err != nil {
			return err
		}
		for _, id := range members {
			if err := s.repo.AddMember(ctx, chat.ID, id); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).
			Str("chat_id", chat.ID.String()).
			Bool("is_group", chat.IsGroup).
			Msg("chat create rolled back")
		return err
	}

	chat.Members = make([]*Member, 0, len(members))
	for _, id := range members {
		chat.Members = append(chat.Members, &Member{ChatID: chat.ID, UserID: id, JoinedAt: chat.CreatedAt})
	}
	return nil
}

func (s *Service) requireAccount(ctx context.Context, id uuid.UUID) error {
	if _, err := s.accounts.FindByID(ctx, id); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrMemberNotFound
		}
		return err
	}
	return nil
}

// ListForUser returns the user's chats, newest first, each with its members
// and latest visible message.
func (s *Service) ListForUser(ctx context.Context, userID uuid.UUID) ([]*Chat, error) {
	chats, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(chats) == 0 {
		return chats, nil
	}

	ids := make([]uuid.UUID, len(chats))
	byID := make(map[uuid.UUID]*Chat, len(chats))
	for i, c := range chats {
		ids[i] = c.ID
		byID[c.ID] = c
		c.Members = []*Member{}
	}

	members, err := s.repo.ListMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		if c, ok := byID[m.ChatID]; ok {
			c.Members = append(c.Members, m)
		}
	}

	last, err := s.repo.LastMessages(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range last {
		if c, ok := byID[m.ChatID]; ok {
			c.LastMessage = m
		}
	}

	return chats, nil
}

// SendMessage posts content to a chat the sender belongs to.
func (s *Service) SendMessage(ctx context.Context, chatID, senderID uuid.UUID, content string) (*Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(content) > maxMessageLength {
		return nil, ErrMessageTooLong
	}

	if err := s.requireMember(ctx, chatID, senderID); err != nil {
		return nil, err
	}

	sender, err := s.accounts.FindByID(ctx, senderID)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	if !sender.CanSendMessages(now) {
		return nil, ErrSenderBlocked
	}

	msg := &Message{
		ID:         uuid.New(),
		ChatID:     chatID,
		SenderID:   senderID,
		SenderName: sender.Username,
		Content:    content,
		CreatedAt:  now,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// ListMessages returns the chat history, oldest first, with deleted content hidden.
func (s *Service) ListMessages(ctx context.Context, chatID, userID uuid.UUID) ([]*Message, error) {
	if err := s.requireMember(ctx, chatID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, chatID)
	if err != nil {
		return nil, err
	}
	out := make([]*Message, len(messages))
	for i, m := range messages {
		out[i] = m.Redacted()
	}
	return out, nil
}

// DeleteMessage soft deletes a message. Only its sender may do so.
func (s *Service) DeleteMessage(ctx context.Context, messageID, requestorID uuid.UUID) error {
	ok, err := s.repo.SoftDeleteMessage(ctx, messageID, requestorID)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return err
	}
	switch {
	case msg == nil:
		return ErrMessageNotFound
	case msg.SenderID != requestorID:
		return ErrNotMessageSender
	default:
		return ErrMessageAlreadyDeleted
	}
}

// FindMessage returns the stored message including deleted content.
// It is meant for moderation, not for chat members.
func (s *Service) FindMessage(ctx context.Context, messageID uuid.UUID) (*Message, error) {
	msg, err := s.repo.GetMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, ErrMessageNotFound
	}
	return msg, nil
}

func (s *Service) requireMember(ctx context.Context, chatID, userID uuid.UUID) error {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return err
	}
	if chat == nil {
		return ErrChatNotFound
	}
	member, err := s.repo.IsMember(ctx, chatID, userID)
	if err != nil {
		return err
	}
	if !member {
		return ErrNotChatMember
	}
	return nil
}
