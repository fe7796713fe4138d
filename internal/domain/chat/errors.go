package chat

import "github.com/mwork/relay-api/internal/pkg/apperr"

var (
	ErrChatNotFound          = apperr.NotFound("chat not found")
	ErrMemberNotFound        = apperr.NotFound("chat member not found")
	ErrMessageNotFound       = apperr.NotFound("message not found")
	ErrNotChatMember         = apperr.Forbidden("you are not a member of this chat")
	ErrNotMessageSender      = apperr.Forbidden("only the sender can delete a message")
	ErrSenderBlocked         = apperr.Forbidden("your account is blocked from sending messages")
	ErrMessageAlreadyDeleted = apperr.InvalidState("message already deleted")
	ErrCannotChatSelf        = apperr.Invalid("cannot start a chat with yourself")
	ErrGroupNameRequired     = apperr.Invalid("group chat name is required")
	ErrEmptyMessage          = apperr.Invalid("message content is required")
	ErrMessageTooLong        = apperr.Invalid("message content is too long")
)
