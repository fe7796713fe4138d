package apperr

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDuplicatePending = Conflict("friend request already pending")

func TestIsMatchesKindSentinel(t *testing.T) {
	wrapped := fmt.Errorf("send: %w", errDuplicatePending)

	assert.True(t, errors.Is(wrapped, errDuplicatePending))
	assert.True(t, errors.Is(wrapped, ErrConflict))
	assert.False(t, errors.Is(wrapped, ErrNotFound))
	assert.False(t, errors.Is(wrapped, Conflict("friend request already pending")))
}

func TestPersistenceWrapsCause(t *testing.T) {
	err := Persistence("friend request accept", sql.ErrConnDone)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPersistence))
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	assert.Equal(t, KindPersistence, KindOf(err))
	assert.Contains(t, err.Error(), "friend request accept")
}

func TestPersistenceKeepsTypedFailures(t *testing.T) {
	notFound := NotFound("report not found")

	assert.Same(t, notFound, Persistence("report resolve", notFound))
	assert.NoError(t, Persistence("noop", nil))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		kind Kind
		want int
	}{
		{KindNotFound, http.StatusNotFound},
		{KindConflict, http.StatusConflict},
		{KindInvalidState, http.StatusConflict},
		{KindForbidden, http.StatusForbidden},
		{KindUnauthorized, http.StatusUnauthorized},
		{KindInvalid, http.StatusBadRequest},
		{KindPersistence, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.kind))
		})
	}
}
