package moderation

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/domain/chat"
	"github.com/mwork/relay-api/internal/domain/user"
	"github.com/mwork/relay-api/internal/pkg/database"
	"github.com/mwork/relay-api/internal/pkg/logger"
	"github.com/mwork/relay-api/internal/pkg/storage"
)

// MessageLookup resolves stored messages, deleted ones included.
type MessageLookup interface {
	FindMessage(ctx context.Context, id uuid.UUID) (*chat.Message, error)
}

// AccountRegistry is the part of the account registry moderation mutates.
type AccountRegistry interface {
	FindByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetBlockState(ctx context.Context, id uuid.UUID, state user.BlockState) error
}

// SessionMarker propagates block decisions to live sessions.
type SessionMarker interface {
	MarkBlocked(ctx context.Context, userID uuid.UUID, state user.BlockState) error
	ClearBlocked(ctx context.Context, userID uuid.UUID) error
}

// Service handles report and moderation business logic
type Service struct {
	repo     Repository
	messages MessageLookup
	accounts AccountRegistry
	tx       database.Transactor
	sessions SessionMarker
	archive  storage.Storage
	now      func() time.Time
}

// NewService creates moderation service. sessions and archive may be nil.
func NewService(repo Repository, messages MessageLookup, accounts AccountRegistry, tx database.Transactor, sessions SessionMarker, archive storage.Storage) *Service {
	return &Service{
		repo:     repo,
		messages: messages,
		accounts: accounts,
		tx:       tx,
		sessions: sessions,
		archive:  archive,
		now:      time.Now,
	}
}

// File creates a PENDING report. The same reporter may report a message any number of times.
func (s *Service) File(ctx context.Context, messageID, reporterID uuid.UUID, reason string) (*Report, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, ErrReasonRequired
	}

	msg, err := s.messages.FindMessage(ctx, messageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if msg.SenderID == reporterID {
		return nil, ErrOwnMessage
	}

	report := &Report{
		ID:         uuid.New(),
		MessageID:  messageID,
		ReporterID: reporterID,
		Reason:     reason,
		Status:     StatusPending,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListPending returns unresolved reports, newest first.
func (s *Service) ListPending(ctx context.Context, actor user.Principal) ([]*ReportView, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	return s.repo.ListPending(ctx)
}

// ListMine returns the reporter's own reports, newest first.
func (s *Service) ListMine(ctx context.Context, reporterID uuid.UUID) ([]*ReportView, error) {
	return s.repo.ListByReporter(ctx, reporterID)
}

// Resolve applies an administrator decision to a PENDING report.
//
// dismiss marks the report REJECTED and touches no account. Any other kind
// marks it APPROVED and blocks the sender of the reported message:
// permanently for block_permanent, for days days otherwise. The status
// update and the block are committed together or not at all.
func (s *Service) Resolve(ctx context.Context, actor user.Principal, reportID uuid.UUID, kind DecisionKind, days int) (*Report, error) {
	if !actor.IsAdmin() {
		return nil, ErrAdminOnly
	}
	if kind.Blocks() && !kind.Permanent() && days < 1 {
		return nil, ErrInvalidDays
	}

	now := s.now().UTC()
	var (
		resolved *Report
		target   *user.User
		state    user.BlockState
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		report, err := s.repo.GetByIDForUpdate(ctx, reportID)
		if err != nil {
			return err
		}
		if report == nil {
			return ErrReportNotFound
		}
		if !report.IsPending() {
			return ErrReportNotPending
		}

		status := StatusRejected
		if kind.Blocks() {
			status = StatusApproved
		}
		summary := kind.Summary(days)

		ok, err := s.repo.Resolve(ctx, report.ID, status, summary, actor.ID, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrReportNotPending
		}

		if kind.Blocks() {
			target, err = s.reportedAccount(ctx, report)
			if err != nil {
				return err
			}
			if kind.Permanent() {
				state = user.PermanentBlock()
			} else {
				state = user.TemporaryBlock(now, days)
			}
			if err := s.accounts.SetBlockState(ctx, target.ID, state); err != nil {
				if errors.Is(err, user.ErrUserNotFound) {
					return ErrReportedAccountMissing
				}
				return err
			}
		}

		report.Status = status
		report.AdminDecision.String, report.AdminDecision.Valid = summary, true
		report.ResolvedBy = uuid.NullUUID{UUID: actor.ID, Valid: true}
		report.ResolvedAt.Time, report.ResolvedAt.Valid = now, true
		resolved = report
		return nil
	})
	if err != nil {
		logger.FromContext(ctx).Error().Err(err).
			Str("report_id", reportID.String()).
			Str("admin_id", actor.ID.String()).
			Str("decision", string(kind)).
			Msg("report resolution rolled back")
		return nil, err
	}

	s.afterResolve(ctx, actor, resolved, target, state)
	return resolved, nil
}

// reportedAccount resolves the sender of the reported message, never the reporter.
func (s *Service) reportedAccount(ctx context.Context, report *Report) (*user.User, error) {
	msg, err := s.messages.FindMessage(ctx, report.MessageID)
	if err != nil {
		if errors.Is(err, chat.ErrMessageNotFound) {
			return nil, ErrReportedAccountMissing
		}
		return nil, err
	}
	sender, err := s.accounts.FindByID(ctx, msg.SenderID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrReportedAccountMissing
		}
		return nil, err
	}
	return sender, nil
}

// afterResolve runs once the decision is committed. Failures are logged only.
func (s *Service) afterResolve(ctx context.Context, actor user.Principal, report *Report, target *user.User, state user.BlockState) {
	log := logger.FromContext(ctx)

	event := log.Info().
		Str("report_id", report.ID.String()).
		Str("admin_id", actor.ID.String()).
		Str("status", string(report.Status)).
		Str("decision", report.AdminDecision.String)
	if target != nil {
		event = event.Str("target_id", target.ID.String())
	}
	event.Msg("report resolved")

	if target != nil && s.sessions != nil {
		if err := s.sessions.MarkBlocked(ctx, target.ID, state); err != nil {
			log.Error().Err(err).Str("user_id", target.ID.String()).Msg("failed to mark sessions blocked")
		}
	}

	if s.archive != nil {
		if err := s.archiveDecision(ctx, report, target, state); err != nil {
			log.Error().Err(err).Str("report_id", report.ID.String()).Msg("failed to archive report decision")
		}
	}
}

// Unblock clears an account's block state.
func (s *Service) Unblock(ctx context.Context, actor user.Principal, accountID uuid.UUID) error {
	if !actor.IsAdmin() {
		return ErrAdminOnly
	}
	if err := s.accounts.SetBlockState(ctx, accountID, user.Unblocked()); err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return ErrAccountNotFound
		}
		return err
	}

	log := logger.FromContext(ctx)
	log.Info().
		Str("admin_id", actor.ID.String()).
		Str("target_id", accountID.String()).
		Msg("account unblocked")

	if s.sessions != nil {
		if err := s.sessions.ClearBlocked(ctx, accountID); err != nil {
			log.Error().Err(err).Str("user_id", accountID.String()).Msg("failed to clear session block")
		}
	}
	return nil
}

type decisionRecord struct {
	ReportID     uuid.UUID  `json:"report_id"`
	MessageID    uuid.UUID  `json:"message_id"`
	ReporterID   uuid.UUID  `json:"reporter_id"`
	Reason       string     `json:"reason"`
	Status       Status     `json:"status"`
	Decision     string     `json:"decision"`
	ResolvedBy   uuid.UUID  `json:"resolved_by"`
	ResolvedAt   time.Time  `json:"resolved_at"`
	TargetID     *uuid.UUID `json:"target_id,omitempty"`
	BlockedUntil *time.Time `json:"blocked_until,omitempty"`
}

func archiveKey(report *Report) string {
	at := report.ResolvedAt.Time
	return fmt.Sprintf("moderation/reports/%04d/%02d/%s.json", at.Year(), int(at.Month()), report.ID)
}

func (s *Service) archiveDecision(ctx context.Context, report *Report, target *user.User, state user.BlockState) error {
	rec := decisionRecord{
		ReportID:   report.ID,
		MessageID:  report.MessageID,
		ReporterID: report.ReporterID,
		Reason:     report.Reason,
		Status:     report.Status,
		Decision:   report.AdminDecision.String,
		ResolvedBy: report.ResolvedBy.UUID,
		ResolvedAt: report.ResolvedAt.Time,
	}
	if target != nil {
		id := target.ID
		rec.TargetID = &id
		rec.BlockedUntil = state.Until
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.archive.Put(ctx, archiveKey(report), bytes.NewReader(body), "application/json")
}
