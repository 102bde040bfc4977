package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devkit/toolbox-service/internal/domain"
)

func newUserMock(t *testing.T) (pgxmock.PgxPoolIface, UserRepository) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return mock, NewUserRepository(mock)
}

func TestUserCreate_Success(t *testing.T) {
	t.Parallel()

	mock, repo := newUserMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ana", "ana@x.com", "hashed").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow("u1", now, now))

	user := &domain.User{Name: "Ana", Email: "ana@x.com", PasswordHash: "hashed"}
	require.NoError(t, repo.Create(context.Background(), user))
	assert.Equal(t, "u1", user.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreate_UniqueViolationMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		constraint string
		want       error
	}{
		{"users_email_key", ErrDuplicateEmail},
		{"users_name_key", ErrDuplicateName},
	}

	for _, tc := range tests {
		t.Run(tc.constraint, func(t *testing.T) {
			mock, repo := newUserMock(t)

			mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
				WithArgs("Ana", "ana@x.com", "hashed").
				WillReturnError(&pgconn.PgError{
					Code:           pgerrcode.UniqueViolation,
					ConstraintName: tc.constraint,
				})

			err := repo.Create(context.Background(), &domain.User{
				Name: "Ana", Email: "ana@x.com", PasswordHash: "hashed",
			})
			assert.True(t, errors.Is(err, tc.want), "got %v", err)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserCreate_OtherErrorsPassThrough(t *testing.T) {
	t.Parallel()

	mock, repo := newUserMock(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Ana", "ana@x.com", "hashed").
		WillReturnError(boom)

	err := repo.Create(context.Background(), &domain.User{
		Name: "Ana", Email: "ana@x.com", PasswordHash: "hashed",
	})
	assert.ErrorIs(t, err, boom)
}

func TestUserGetByNameOrEmail(t *testing.T) {
	t.Parallel()

	mock, repo := newUserMock(t)
	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE name=$1 OR email=$2")).
		WithArgs("Ana", "other@x.com").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "email", "password_hash", "created_at", "updated_at"}).
			AddRow("u1", "Ana", "ana@x.com", "hashed", now, now))

	user, err := repo.GetByNameOrEmail(context.Background(), "Ana", "other@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", user.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByEmail_NoRows(t *testing.T) {
	t.Parallel()

	mock, repo := newUserMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=$1")).
		WithArgs("nobody@x.com").
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}
