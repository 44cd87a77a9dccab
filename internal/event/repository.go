// AngelaMos | 2026
// repository.go

package event

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, offset, limit int) ([]Event, error)
	Count(ctx context.Context) (int, error)
	UpdateFields(ctx context.Context, id int64, changes Changes) (*Event, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const eventColumns = `id, title, description,
		to_char(date, 'YYYY-MM-DD') AS date,
		to_char(time, 'HH24:MI:SS') AS time,
		image_url, created_at, updated_at`

// columnCasts whitelists the columns UpdateFields may write.
var columnCasts = map[string]string{
	"title":       "",
	"description": "",
	"date":        "::date",
	"time":        "::time",
	"image_url":   "",
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	query := `
		INSERT INTO events (title, description, date, time, image_url)
		VALUES ($1, $2, $3::date, $4::time, $5)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		event.Title,
		event.Description,
		event.Date,
		event.Time,
		event.ImageURL,
	).Scan(&event.ID, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		WHERE id = $1`

	var event Event
	err := r.db.GetContext(ctx, &event, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}

	return &event, nil
}

func (r *repository) List(
	ctx context.Context,
	offset, limit int,
) ([]Event, error) {
	query := `SELECT ` + eventColumns + `
		FROM events
		ORDER BY events.date, events.time, events.id
		LIMIT $1 OFFSET $2`

	events := []Event{}
	if err := r.db.SelectContext(ctx, &events, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	return events, nil
}

func (r *repository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM events`); err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return total, nil
}

// UpdateFields applies changes in a single statement and returns the
// stored row. updated_at is always bumped.
func (r *repository) UpdateFields(
	ctx context.Context,
	id int64,
	changes Changes,
) (*Event, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}

	columns := make([]string, 0, len(changes))
	for column := range changes {
		if _, ok := columnCasts[column]; !ok {
			return nil, fmt.Errorf("update event: unknown column %q", column)
		}
		columns = append(columns, column)
	}
	slices.Sort(columns)

	sets := make([]string, 0, len(columns)+1)
	args := []any{id}
	for _, column := range columns {
		value, err := columnValue(column, changes[column])
		if err != nil {
			return nil, fmt.Errorf("update event: %w", err)
		}
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d%s", column, len(args), columnCasts[column]))
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`
		UPDATE events
		SET %s
		WHERE id = $1
		RETURNING %s`, strings.Join(sets, ", "), eventColumns)

	var event Event
	err := r.db.GetContext(ctx, &event, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("update event: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	return &event, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete event: %w", core.ErrNotFound)
	}

	return nil
}

func columnValue(column string, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case time.Time:
		switch column {
		case "date":
			return v.Format(DateLayout), nil
		case "time":
			return v.Format(TimeLayout), nil
		}
	}
	return nil, fmt.Errorf("column %s: unsupported value %T", column, value)
}
