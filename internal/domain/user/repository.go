package user

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
)

const usernameConstraint = "users_username_key"

// Repository defines account data access
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]*User, error)
	ListByRole(ctx context.Context, role Role) ([]*User, error)
	// SetBlockState joins the caller's transaction when ctx carries one.
	SetBlockState(ctx context.Context, id uuid.UUID, state BlockState) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new user repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const userColumns = `id, username, password_hash, role, is_blocked, blocked_until, created_at, updated_at`

func (r *repository) Create(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, username, password_hash, role, is_blocked, blocked_until, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.IsBlocked,
		user.BlockedUntil,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err, usernameConstraint) {
			return ErrUsernameTaken
		}
		return apperr.Persistence("user create", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

// GetByUsername matches case-sensitively.
func (r *repository) GetByUsername(ctx context.Context, username string) (*User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (r *repository) getOne(ctx context.Context, query string, arg interface{}) (*User, error) {
	var u User
	if err := database.Conn(ctx, r.db).GetContext(ctx, &u, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence("user get", err)
	}
	return &u, nil
}

// Search matches username substrings case-insensitively, excluding admins and excludeID.
func (r *repository) Search(ctx context.Context, query string, excludeID uuid.UUID, limit int) ([]*User, error) {
	q := `
		SELECT ` + userColumns + `
		FROM users
		WHERE username ILIKE '%' || $1 || '%'
		  AND id <> $2
		  AND role = $3
		ORDER BY username
		LIMIT $4
	`
	users := []*User{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &users, q, escapeLike(query), excludeID, RoleUser, limit); err != nil {
		return nil, apperr.Persistence("user search", err)
	}
	return users, nil
}

func (r *repository) ListByRole(ctx context.Context, role Role) ([]*User, error) {
	q := `SELECT ` + userColumns + ` FROM users WHERE role = $1 ORDER BY username`
	users := []*User{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &users, q, role); err != nil {
		return nil, apperr.Persistence("user list", err)
	}
	return users, nil
}

func (r *repository) SetBlockState(ctx context.Context, id uuid.UUID, state BlockState) error {
	q := `
		UPDATE users
		SET is_blocked = $2, blocked_until = $3, updated_at = NOW()
		WHERE id = $1
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, q, id, state.Blocked, state.nullUntil())
	if err != nil {
		return apperr.Persistence("user set block state", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperr.Persistence("user set block state", err)
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// escapeLike escapes LIKE wildcards so the query is matched literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
