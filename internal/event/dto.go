// AngelaMos | 2026
// dto.go

package event

import (
	"math"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

type CreateEventRequest struct {
	Title       string `json:"title"       validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Date        string `json:"date"        validate:"required"`
	Time        string `json:"time"        validate:"required"`
	ImageURL    string `json:"image_url"   validate:"omitempty,url,max=2048"`
}

// toEvent checks the fields the validator cannot and returns the event to
// insert.
func (r CreateEventRequest) toEvent() (*Event, error) {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return nil, core.NewValidationError("title", core.ErrEmptyTitle)
	}

	date, err := ParseDate(r.Date)
	if err != nil {
		return nil, core.NewValidationError("date", core.ErrInvalidDate)
	}

	clock, err := ParseTime(r.Time)
	if err != nil {
		return nil, core.NewValidationError("time", core.ErrInvalidTime)
	}

	return &Event{
		Title:       title,
		Description: optional(r.Description),
		Date:        date.Format(DateLayout),
		Time:        clock.Format(TimeLayout),
		ImageURL:    optional(r.ImageURL),
	}, nil
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

type EventResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Date        string    `json:"date"`
	Time        string    `json:"time"`
	ImageURL    *string   `json:"image_url"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListEventsParams struct {
	Page     int
	PageSize int
}

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Normalize applies defaults and bounds Page so Offset cannot overflow.
func (p *ListEventsParams) Normalize() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.PageSize < 1 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	if maxPage := math.MaxInt / p.PageSize; p.Page > maxPage {
		p.Page = maxPage
	}
}

func (p *ListEventsParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

func ToEventResponse(e *Event) EventResponse {
	return EventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Date:        e.Date,
		Time:        e.Time,
		ImageURL:    e.ImageURL,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToEventResponseList(events []Event) []EventResponse {
	out := make([]EventResponse, len(events))
	for i := range events {
		out[i] = ToEventResponse(&events[i])
	}
	return out
}
