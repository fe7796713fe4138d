package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwork/relay-api/internal/pkg/apperr"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return NewRepository(sqlx.NewDb(raw, "postgres")), mock
}

func TestRepositoryCreateMapsUniqueViolation(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err := repo.Create(context.Background(), &User{ID: uuid.New(), Username: "alice", Role: RoleUser})

	assert.True(t, errors.Is(err, ErrUsernameTaken))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositoryCreateWrapsOtherErrors(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectExec("INSERT INTO users").WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &User{ID: uuid.New(), Username: "alice", Role: RoleUser})

	assert.True(t, errors.Is(err, apperr.ErrPersistence))
}

func TestRepositoryGetByUsernameNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery("SELECT .* FROM users WHERE username = \\$1").
		WithArgs("ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	u, err := repo.GetByUsername(context.Background(), "ghost")

	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestRepositorySearchEscapesWildcards(t *testing.T) {
	repo, mock := newMockRepo(t)
	exclude := uuid.New()
	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery("SELECT .* FROM users").
		WithArgs(`50\%\_off`, exclude, RoleUser, 50).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "password_hash", "role", "is_blocked", "blocked_until", "created_at", "updated_at"}).
			AddRow(id.String(), "50%_off", "h", "USER", false, nil, now, now))

	users, err := repo.Search(context.Background(), "50%_off", exclude, 50)

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, id, users[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepositorySetBlockStateMissingAccount(t *testing.T) {
	repo, mock := newMockRepo(t)
	id := uuid.New()
	mock.ExpectExec("UPDATE users").
		WithArgs(id, true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetBlockState(context.Background(), id, PermanentBlock())

	assert.True(t, errors.Is(err, ErrUserNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}
