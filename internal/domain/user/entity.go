package user

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Role represents account role (matches users.role check constraint)
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// User represents an account (matches users table)
type User struct {
	ID           uuid.UUID    `db:"id"`
	Username     string       `db:"username"`
	PasswordHash string       `db:"password_hash"`
	Role         Role         `db:"role"`
	IsBlocked    bool         `db:"is_blocked"`
	BlockedUntil sql.NullTime `db:"blocked_until"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`
}

// IsAdmin returns true if user is an admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// BlockState returns the stored block flag and expiry.
func (u *User) BlockState() BlockState {
	state := BlockState{Blocked: u.IsBlocked}
	if u.BlockedUntil.Valid {
		until := u.BlockedUntil.Time
		state.Until = &until
	}
	return state
}

// IsCurrentlyBlocked interprets the stored block state at now. The stored
// flag of an expired temporary block is never cleared; it simply stops applying.
func (u *User) IsCurrentlyBlocked(now time.Time) bool {
	return u.BlockState().ActiveAt(now)
}

// CanSendMessages returns true unless the account is currently blocked.
func (u *User) CanSendMessages(now time.Time) bool {
	return !u.IsCurrentlyBlocked(now)
}

// BlockState is {blocked, blocked_until}. Until == nil with Blocked set is a permanent block.
type BlockState struct {
	Blocked bool
	Until   *time.Time
}

func Unblocked() BlockState {
	return BlockState{}
}

func PermanentBlock() BlockState {
	return BlockState{Blocked: true}
}

// TemporaryBlock blocks for days calendar days from now.
func TemporaryBlock(now time.Time, days int) BlockState {
	until := now.UTC().AddDate(0, 0, days)
	return BlockState{Blocked: true, Until: &until}
}

func (s BlockState) IsPermanent() bool {
	return s.Blocked && s.Until == nil
}

// ActiveAt reports whether the block applies at now.
func (s BlockState) ActiveAt(now time.Time) bool {
	if !s.Blocked {
		return false
	}
	return s.Until == nil || now.Before(*s.Until)
}

func (s BlockState) nullUntil() sql.NullTime {
	if !s.Blocked || s.Until == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *s.Until, Valid: true}
}

// Principal is the verified (account id, role) pair a caller acts as.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}
