package user

import (
	"database/sql"
	"testing"
	"time"
)

func TestIsCurrentlyBlocked(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"not blocked", User{}, false},
		{"permanent", User{IsBlocked: true}, true},
		{"temporary active", User{IsBlocked: true, BlockedUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true}}, true},
		{"temporary expired", User{IsBlocked: true, BlockedUntil: sql.NullTime{Time: now.Add(-time.Second), Valid: true}}, false},
		{"expiry exactly now", User{IsBlocked: true, BlockedUntil: sql.NullTime{Time: now, Valid: true}}, false},
		{"stale until without flag", User{BlockedUntil: sql.NullTime{Time: now.Add(time.Hour), Valid: true}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.IsCurrentlyBlocked(now); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
			if got := tt.user.CanSendMessages(now); got == tt.want {
				t.Fatalf("expected CanSendMessages=%v, got %v", !tt.want, got)
			}
		})
	}
}

func TestTemporaryBlock(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	state := TemporaryBlock(now, 7)

	if !state.Blocked || state.Until == nil {
		t.Fatalf("expected temporary block, got %+v", state)
	}
	if want := now.AddDate(0, 0, 7); !state.Until.Equal(want) {
		t.Fatalf("expected until %v, got %v", want, *state.Until)
	}
	if state.IsPermanent() {
		t.Fatal("temporary block reported as permanent")
	}
	if !PermanentBlock().IsPermanent() {
		t.Fatal("expected permanent block")
	}
	if Unblocked().nullUntil().Valid {
		t.Fatal("unblocked state must clear blocked_until")
	}
}
