// AngelaMos | 2026
// seed_test.go

package user

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/event-backend/internal/config"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return sqlx.NewDb(db, "pgx"), mock
}

var seedAdmin = config.AdminConfig{
	Name:     "Root",
	Email:    " Root@Example.com ",
	Password: "bootstrap-secret",
}

func TestEnsureAdmin_Disabled(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)

	created, err := EnsureAdmin(context.Background(), db, config.AdminConfig{})
	require.NoError(t, err)
	assert.False(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_Creates(t *testing.T) {
	t.Parallel()

	db, mock := newMockDB(t)
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
		WithArgs("root@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns))
	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Root", "root@example.com", sqlmock.AnyArg(), "admin").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(1), now, now))
	mock.ExpectCommit()

	created, err := EnsureAdmin(context.Background(), db, seedAdmin)
	require.NoError(t, err)
	assert.True(t, created)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureAdmin_ExistingAccountUntouched(t *testing.T) {
	t.Parallel()

	for _, role := range []Role{RoleAdmin, RoleNormal} {
		t.Run(string(role), func(t *testing.T) {
			t.Parallel()

			db, mock := newMockDB(t)
			now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

			mock.ExpectBegin()
			mock.ExpectQuery(`FROM users\s+WHERE email = \$1`).
				WithArgs("root@example.com").
				WillReturnRows(sqlmock.NewRows(userColumns).
					AddRow(int64(3), "Root", "root@example.com", "hash", string(role), now, now))
			mock.ExpectCommit()

			created, err := EnsureAdmin(context.Background(), db, seedAdmin)
			require.NoError(t, err)
			assert.False(t, created)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
