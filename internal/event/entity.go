// AngelaMos | 2026
// entity.go

package event

import (
	"time"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"

	timeLayoutShort = "15:04"
)

const (
	MaxTitleLength  = 255
	MaxStringLength = 5000
	MaxURLLength    = 2048
)

// Event dates and times are kept in their canonical text form
// (YYYY-MM-DD, HH:MM:SS) as rendered by the store.
type Event struct {
	ID          int64     `db:"id"`
	Title       string    `db:"title"`
	Description *string   `db:"description"`
	Date        string    `db:"date"`
	Time        string    `db:"time"`
	ImageURL    *string   `db:"image_url"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}
