package friendship

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/apperr"
	"github.com/mwork/relay-api/internal/pkg/database"
	"github.com/mwork/relay-api/internal/pkg/logger"
)

// ContactGraph is the part of the contact graph the workflow reads and writes.
type ContactGraph interface {
	AreContacts(ctx context.Context, a, b uuid.UUID) (bool, error)
	Connect(ctx context.Context, a, b uuid.UUID) error
}

// AccountLookup resolves accounts by id.
type AccountLookup interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// Service runs the friend request state machine:
// PENDING -> ACCEPTED or PENDING -> REJECTED, both terminal.
type Service struct {
	repo     Repository
	contacts ContactGraph
	accounts AccountLookup
	tx       database.Transactor
	now      func() time.Time
}

// NewService creates friend request service
func NewService(repo Repository, contacts ContactGraph, accounts AccountLookup, tx database.Transactor) *Service {
	return &Service{
		repo:     repo,
		contacts: contacts,
		accounts: accounts,
		tx:       tx,
		now:      time.Now,
	}
}

// Send creates a PENDING request from fromUserID to toUserID.
// Requests in the opposite direction are independent and do not block this one.
func (s *Service) Send(ctx context.Context, fromUserID, toUserID uuid.UUID) (*FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfRequest
	}

	if _, err := s.accounts.FindByID(ctx, toUserID); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrRecipientNotFound
		}
		return nil, err
	}

	connected, err := s.contacts.AreContacts(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if connected {
		return nil, ErrAlreadyContacts
	}

	pending, err := s.repo.HasPending(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, ErrDuplicatePending
	}

	now := s.now().UTC()
	req := &FriendRequest{
		ID:         uuid.New(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	// The partial unique index settles concurrent sends that both passed HasPending.
	if err := s.repo.Create(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// Accept marks the request ACCEPTED and connects both users in one transaction.
// Requests that do not exist or are addressed to someone else are reported as not found.
func (s *Service) Accept(ctx context.Context, requestID, acceptorID uuid.UUID) (*FriendRequest, error) {
	var accepted *FriendRequest

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		req, err := s.repo.GetByIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		if req == nil || req.ToUserID != acceptorID {
			return ErrRequestNotFound
		}
		if !req.IsPending() {
			return ErrRequestNotPending
		}

		ok, err := s.repo.Transition(ctx, req.ID, acceptorID, StatusAccepted)
		if err != nil {
			return err
		}
		if !ok {
			return ErrRequestNotPending
		}

		if err := s.contacts.Connect(ctx, acceptorID, req.FromUserID); err != nil {
			return err
		}

		req.Status = StatusAccepted
		req.UpdatedAt = s.now().UTC()
		accepted = req
		return nil
	})
	if err != nil {
		if errors.Is(err, apperr.ErrPersistence) {
			logger.FromContext(ctx).Error().Err(err).
				Str("request_id", requestID.String()).
				Msg("friend request accept rolled back")
		}
		return nil, err
	}
	return accepted, nil
}

// Reject marks the request REJECTED. No contact edges are touched.
func (s *Service) Reject(ctx context.Context, requestID, rejectorID uuid.UUID) error {
	ok, err := s.repo.Transition(ctx, requestID, rejectorID, StatusRejected)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	req, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req == nil || req.ToUserID != rejectorID {
		return ErrRequestNotFound
	}
	return ErrRequestNotPending
}

// ListIncoming returns PENDING requests addressed to userID, newest first.
func (s *Service) ListIncoming(ctx context.Context, userID uuid.UUID) ([]*IncomingRequest, error) {
	return s.repo.ListIncoming(ctx, userID)
}

// ListOutgoing returns userID's own PENDING requests, newest first.
func (s *Service) ListOutgoing(ctx context.Context, userID uuid.UUID) ([]*OutgoingRequest, error) {
	return s.repo.ListOutgoing(ctx, userID)
}
