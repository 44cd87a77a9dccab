// AngelaMos | 2026
// repository_test.go

package event

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

func newMockRepo(t *testing.T) (Repository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	return NewRepository(sqlx.NewDb(db, "pgx")), mock
}

var eventRowColumns = []string{
	"id", "title", "description", "date", "time", "image_url", "created_at", "updated_at",
}

func TestRepository_Create(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)

	mock.ExpectQuery(`INSERT INTO events \(.+\)\s+VALUES \(\$1, \$2, \$3::date, \$4::time, \$5\)`).
		WithArgs("Gala", nil, "2026-04-01", "19:00:00", nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).
			AddRow(int64(11), now, now))

	e := &Event{Title: "Gala", Date: "2026-04-01", Time: "19:00:00"}
	require.NoError(t, repo.Create(context.Background(), e))
	assert.Equal(t, int64(11), e.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_List_OrderedByDateTime(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	mock.ExpectQuery(`ORDER BY events.date, events.time, events.id\s+LIMIT \$1 OFFSET \$2`).
		WithArgs(10, 20).
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow(int64(1), "A", nil, "2026-01-01", "09:00:00", nil, now, now).
			AddRow(int64(2), "B", "desc", "2026-01-01", "10:00:00", "https://cdn/x.png", now, now))

	events, err := repo.List(context.Background(), 20, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Nil(t, events[0].Description)
	require.NotNil(t, events[1].ImageURL)
	assert.Equal(t, "https://cdn/x.png", *events[1].ImageURL)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateFields(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)
	now := time.Now().UTC()

	changes := Changes{
		"title": "Renamed",
		"date":  time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC),
		"time":  time.Date(0, 1, 1, 8, 15, 0, 0, time.UTC),
	}

	mock.ExpectQuery(`UPDATE events\s+SET date = \$2::date, time = \$3::time, title = \$4, updated_at = NOW\(\)\s+WHERE id = \$1\s+RETURNING`).
		WithArgs(int64(5), "2026-07-04", "08:15:00", "Renamed").
		WillReturnRows(sqlmock.NewRows(eventRowColumns).
			AddRow(int64(5), "Renamed", nil, "2026-07-04", "08:15:00", nil, now, now))

	event, err := repo.UpdateFields(context.Background(), 5, changes)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", event.Title)
	assert.Equal(t, "08:15:00", event.Time)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateFields_NotFound(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`UPDATE events`).
		WithArgs(int64(404), "x").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := repo.UpdateFields(context.Background(), 404, Changes{"description": "x"})
	assert.True(t, errors.Is(err, core.ErrNotFound))
}

func TestRepository_UpdateFields_RejectsUnknownColumn(t *testing.T) {
	t.Parallel()

	repo, _ := newMockRepo(t)

	_, err := repo.UpdateFields(context.Background(), 1, Changes{"id; DROP TABLE events": "x"})
	assert.Error(t, err)
}

func TestRepository_Delete(t *testing.T) {
	t.Parallel()

	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs(int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM events WHERE id = \$1`).
		WithArgs(int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 3))
	assert.True(t, errors.Is(repo.Delete(context.Background(), 4), core.ErrNotFound))
	require.NoError(t, mock.ExpectationsWereMet())
}
