package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/jwt"
	"github.com/mwork/relay-api/internal/pkg/logger"
)

// Accounts is the account registry as seen by authentication.
type Accounts interface {
	Register(ctx context.Context, username, passwordHash string) (*user.User, error)
	FindByUsername(ctx context.Context, username string) (*user.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenRevoker records logged out token ids.
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error
}

// Service handles authentication business logic
type Service struct {
	accounts   Accounts
	hasher     PasswordHasher
	jwtService *jwt.Service
	revoker    TokenRevoker
	now        func() time.Time
}

// NewService creates auth service
func NewService(accounts Accounts, hasher PasswordHasher, jwtService *jwt.Service, revoker TokenRevoker) *Service {
	return &Service{
		accounts:   accounts,
		hasher:     hasher,
		jwtService: jwtService,
		revoker:    revoker,
		now:        time.Now,
	}
}

// Register creates a USER account and signs it in.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*AuthResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.accounts.Register(ctx, strings.TrimSpace(req.Username), hash)
	if err != nil {
		return nil, err
	}

	return s.issue(u)
}

// Login verifies credentials. A temporary block that has run out no longer
// prevents login even though the stored flag is still set.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*AuthResponse, error) {
	u, err := s.accounts.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(req.Password, u.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	if u.IsCurrentlyBlocked(s.now()) {
		logger.FromContext(ctx).Info().
			Str("user_id", u.ID.String()).
			Msg("login refused for blocked account")
		return nil, ErrAccountBlocked
	}

	return s.issue(u)
}

// Logout revokes the access token identified by tokenID.
func (s *Service) Logout(ctx context.Context, tokenID string, expiresAt time.Time) error {
	if s.revoker == nil || tokenID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, tokenID, expiresAt)
}

// Me returns the authenticated account.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	u, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := NewUserResponse(u, s.now())
	return &resp, nil
}

func (s *Service) issue(u *user.User) (*AuthResponse, error) {
	token, expiresAt, err := s.jwtService.GenerateAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &AuthResponse{
		User: NewUserResponse(u, s.now()),
		Tokens: TokensResponse{
			AccessToken: token,
			TokenType:   "Bearer",
			ExpiresIn:   int(s.jwtService.AccessTTL().Seconds()),
			ExpiresAt:   expiresAt,
		},
	}, nil
}
