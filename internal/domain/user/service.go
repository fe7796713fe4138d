package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const searchLimit = 50

// Service is the account registry.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates account registry service
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Register creates a USER account. passwordHash is stored as given.
// The existence check gives a fast answer; the unique constraint on
// users.username decides concurrent registrations.
func (s *Service) Register(ctx context.Context, username, passwordHash string) (*User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, ErrUsernameRequired
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrUsernameTaken
	}

	now := s.now().UTC()
	u := &User{
		ID:           uuid.New(),
		Username:     username,
		PasswordHash: passwordHash,
		Role:         RoleUser,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if !errors.Is(err, ErrUsernameTaken) {
			log.Error().Err(err).Str("username", username).Msg("failed to create user")
		}
		return nil, err
	}
	return u, nil
}

// FindByID returns ErrUserNotFound when absent.
func (s *Service) FindByID(ctx context.Context, id uuid.UUID) (*User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// FindByUsername returns ErrUserNotFound when absent.
func (s *Service) FindByUsername(ctx context.Context, username string) (*User, error) {
	u, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Search returns regular accounts whose username contains query, ignoring case.
// An empty query yields no results.
func (s *Service) Search(ctx context.Context, query string, excludeID uuid.UUID) ([]*User, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*User{}, nil
	}
	return s.repo.Search(ctx, query, excludeID, searchLimit)
}

// ListUsers returns every USER account ordered by username.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.repo.ListByRole(ctx, RoleUser)
}

// SetBlockState overwrites the account's block state.
func (s *Service) SetBlockState(ctx context.Context, id uuid.UUID, state BlockState) error {
	return s.repo.SetBlockState(ctx, id, state)
}

// Now exposes the service clock so callers interpret block state consistently.
func (s *Service) Now() time.Time {
	return s.now()
}
