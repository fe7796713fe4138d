package user

import "github.com/mwork/relay-api/internal/pkg/apperr"

var (
	ErrUserNotFound     = apperr.NotFound("user not found")
	ErrUsernameTaken    = apperr.Conflict("username already exists")
	ErrUsernameRequired = apperr.Invalid("username is required")
)
