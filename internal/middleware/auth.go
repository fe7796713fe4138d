package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mwork/relay-api/internal/pkg/jwt"
	"github.com/mwork/relay-api/internal/pkg/logger"
	"github.com/mwork/relay-api/internal/pkg/response"
)

type contextKey string

const (
	UserIDKey   contextKey = "user_id"
	RoleKey     contextKey = "role"
	TokenIDKey  contextKey = "token_id"
	TokenExpKey contextKey = "token_exp"
	roleAdmin              = "ADMIN"
)

// SessionGate answers whether an already issued token must be refused.
type SessionGate interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
	IsBlocked(ctx context.Context, userID uuid.UUID) (bool, error)
}

// Auth returns middleware that validates the bearer token and consults gate.
// A nil gate disables revocation and block checks. Gate lookup failures are
// logged and the request proceeds; login is still refused for blocked accounts.
func Auth(jwtService *jwt.Service, gate SessionGate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				response.Unauthorized(w, "Missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				response.Unauthorized(w, "Invalid authorization header format")
				return
			}

			claims, err := jwtService.ValidateAccessToken(parts[1])
			if err != nil {
				if errors.Is(err, jwt.ErrExpiredToken) {
					response.Unauthorized(w, "Token expired")
				} else {
					response.Unauthorized(w, "Invalid token")
				}
				return
			}

			ctx := r.Context()
			if gate != nil {
				if revoked, err := gate.IsRevoked(ctx, claims.ID); err != nil {
					logger.FromContext(ctx).Warn().Err(err).Msg("Session gate revocation lookup failed")
				} else if revoked {
					response.Unauthorized(w, "Token revoked")
					return
				}

				if blocked, err := gate.IsBlocked(ctx, claims.UserID); err != nil {
					logger.FromContext(ctx).Warn().Err(err).Msg("Session gate block lookup failed")
				} else if blocked {
					response.Forbidden(w, "Your account is blocked")
					return
				}
			}

			ctx = context.WithValue(ctx, UserIDKey, claims.UserID)
			ctx = context.WithValue(ctx, RoleKey, claims.Role)
			ctx = context.WithValue(ctx, TokenIDKey, claims.ID)
			ctx = context.WithValue(ctx, TokenExpKey, claims.ExpiresAtTime())

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from context
func GetUserID(ctx context.Context) uuid.UUID {
	if id, ok := ctx.Value(UserIDKey).(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}

// GetRole extracts role from context
func GetRole(ctx context.Context) string {
	if role, ok := ctx.Value(RoleKey).(string); ok {
		return role
	}
	return ""
}

// GetTokenID returns the id and expiry of the token that authenticated the request.
func GetTokenID(ctx context.Context) (string, time.Time) {
	id, _ := ctx.Value(TokenIDKey).(string)
	exp, _ := ctx.Value(TokenExpKey).(time.Time)
	return id, exp
}

// RequireRole returns middleware that checks user role
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole := GetRole(r.Context())

			for _, role := range roles {
				if userRole == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, "Insufficient permissions")
		})
	}
}

// RequireAdmin returns middleware that requires admin role
func RequireAdmin() func(http.Handler) http.Handler {
	return RequireRole(roleAdmin)
}
