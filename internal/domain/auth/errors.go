package auth

import "github.com/mwork/relay-api/internal/pkg/apperr"

var (
	ErrInvalidCredentials = apperr.Unauthorized("invalid username or password")
	ErrAccountBlocked     = apperr.Forbidden("account is blocked")
)
