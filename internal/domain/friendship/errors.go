package friendship

import "github.com/mwork/relay-api/internal/pkg/apperr"

var (
	ErrRequestNotFound   = apperr.NotFound("friend request not found")
	ErrRequestNotPending = apperr.InvalidState("friend request already resolved")
	ErrDuplicatePending  = apperr.Conflict("friend request already pending")
	ErrAlreadyContacts   = apperr.Conflict("users are already contacts")
	ErrSelfRequest       = apperr.Invalid("cannot send a friend request to yourself")
	ErrRecipientNotFound = apperr.NotFound("recipient not found")
)
