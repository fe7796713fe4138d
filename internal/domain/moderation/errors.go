package moderation

import "github.com/mwork/relay-api/internal/pkg/apperr"

var (
	ErrReportNotFound   = apperr.NotFound("report not found")
	ErrReportNotPending = apperr.InvalidState("report already resolved")
	ErrMessageNotFound  = apperr.NotFound("message not found")
	ErrOwnMessage       = apperr.Invalid("cannot report your own message")
	ErrReasonRequired   = apperr.Invalid("report reason is required")
	ErrInvalidDays      = apperr.Invalid("temporary block requires at least 1 day")
	ErrAdminOnly        = apperr.Forbidden("administrator role required")
	ErrAccountNotFound  = apperr.NotFound("account not found")

	// ErrReportedAccountMissing aborts an approval whose message sender cannot
	// be resolved. The report stays PENDING.
	ErrReportedAccountMissing = apperr.NotFound("reported account not found")
)
