package friendship

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
)

const pendingPairIndex = "friend_requests_pending_pair_idx"

// Repository defines friend request data access interface
type Repository interface {
	Create(ctx context.Context, req *FriendRequest) error
	HasPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*FriendRequest, error)
	// GetByIDForUpdate locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*FriendRequest, error)
	// Transition moves a PENDING request addressed to recipientID into status.
	// It reports false when no such pending request exists.
	Transition(ctx context.Context, id, recipientID uuid.UUID, status Status) (bool, error)
	ListIncoming(ctx context.Context, userID uuid.UUID) ([]*IncomingRequest, error)
	ListOutgoing(ctx context.Context, userID uuid.UUID) ([]*OutgoingRequest, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new friend request repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const requestColumns = `id, from_user_id, to_user_id, status, created_at, updated_at`

func (r *repository) Create(ctx context.Context, req *FriendRequest) error {
	query := `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := database.Conn(ctx, r.db).ExecContext(ctx, query,
		req.ID, req.FromUserID, req.ToUserID, req.Status, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		switch {
		case database.IsUniqueViolation(err, pendingPairIndex):
			return ErrDuplicatePending
		case database.IsForeignKeyViolation(err):
			return ErrRecipientNotFound
		}
		return apperr.Persistence("friend request create", err)
	}
	return nil
}

func (r *repository) HasPending(ctx context.Context, fromUserID, toUserID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'PENDING'
		)
	`
	var exists bool
	if err := database.Conn(ctx, r.db).GetContext(ctx, &exists, query, fromUserID, toUserID); err != nil {
		return false, apperr.Persistence("friend request has pending", err)
	}
	return exists, nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*FriendRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM friend_requests WHERE id = $1`, id)
}

func (r *repository) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*FriendRequest, error) {
	return r.get(ctx, `SELECT `+requestColumns+` FROM friend_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *repository) get(ctx context.Context, query string, id uuid.UUID) (*FriendRequest, error) {
	var req FriendRequest
	if err := database.Conn(ctx, r.db).GetContext(ctx, &req, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, apperr.Persistence("friend request get", err)
	}
	return &req, nil
}

func (r *repository) Transition(ctx context.Context, id, recipientID uuid.UUID, status Status) (bool, error) {
	query := `
		UPDATE friend_requests
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND to_user_id = $2 AND status = 'PENDING'
	`
	res, err := database.Conn(ctx, r.db).ExecContext(ctx, query, id, recipientID, status)
	if err != nil {
		return false, apperr.Persistence("friend request transition", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Persistence("friend request transition", err)
	}
	return n == 1, nil
}

func (r *repository) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*IncomingRequest, error) {
	query := `
		SELECT fr.id, fr.from_user_id, fr.to_user_id, fr.status, fr.created_at, fr.updated_at,
		       u.username AS from_username
		FROM friend_requests fr
		JOIN users u ON u.id = fr.from_user_id
		WHERE fr.to_user_id = $1 AND fr.status = 'PENDING'
		ORDER BY fr.created_at DESC
	`
	items := []*IncomingRequest{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &items, query, userID); err != nil {
		return nil, apperr.Persistence("friend request list incoming", err)
	}
	return items, nil
}

func (r *repository) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]*OutgoingRequest, error) {
	query := `
		SELECT fr.id, fr.from_user_id, fr.to_user_id, fr.status, fr.created_at, fr.updated_at,
		       u.username AS to_username
		FROM friend_requests fr
		JOIN users u ON u.id = fr.to_user_id
		WHERE fr.from_user_id = $1 AND fr.status = 'PENDING'
		ORDER BY fr.created_at DESC
	`
	items := []*OutgoingRequest{}
	if err := database.Conn(ctx, r.db).SelectContext(ctx, &items, query, userID); err != nil {
		return nil, apperr.Persistence("friend request list outgoing", err)
	}
	return items, nil
}
