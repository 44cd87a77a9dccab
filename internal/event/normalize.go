// AngelaMos | 2026
// normalize.go

package event

import (
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/event-backend/internal/core"
)

type Kind int

const (
	KindString Kind = iota
	KindTitle
	KindDate
	KindTime
	KindURL
)

// Schema lists the fields a partial update may touch.
type Schema map[string]Kind

// Changes holds normalized values: string for text kinds, time.Time for
// dates and times.
type Changes map[string]any

var EventSchema = Schema{
	"title":       KindTitle,
	"description": KindString,
	"date":        KindDate,
	"time":        KindTime,
	"image_url":   KindURL,
}

// urlValidator applies the same url rule create requests are held to.
var urlValidator = validator.New()

// Normalize turns a loosely typed partial update into typed changes.
//
// Keys missing from schema are ignored. A nil or empty value means "leave
// unchanged", so a partial update can never clear a field. The one
// exception is a title that is empty after trimming, which is rejected.
// Fields are checked in sorted order and the first failure is returned as
// a *core.ValidationError.
func Normalize(schema Schema, raw map[string]any) (Changes, error) {
	keys := make([]string, 0, len(raw))
	for key := range raw {
		if _, ok := schema[key]; ok {
			keys = append(keys, key)
		}
	}
	slices.Sort(keys)

	changes := make(Changes, len(keys))
	for _, key := range keys {
		value, keep, err := normalizeValue(schema[key], raw[key])
		if err != nil {
			return nil, core.NewValidationError(key, err)
		}
		if keep {
			changes[key] = value
		}
	}

	return changes, nil
}

func normalizeValue(kind Kind, value any) (any, bool, error) {
	if value == nil {
		return nil, false, nil
	}

	s, ok := value.(string)
	if !ok {
		return nil, false, typeError(kind)
	}
	s = strings.TrimSpace(s)

	switch kind {
	case KindTitle:
		if s == "" {
			return nil, false, core.ErrEmptyTitle
		}
		if utf8.RuneCountInString(s) > MaxTitleLength {
			return nil, false, core.ErrInputTooLong
		}
		return s, true, nil

	case KindString:
		if s == "" {
			return nil, false, nil
		}
		if utf8.RuneCountInString(s) > MaxStringLength {
			return nil, false, core.ErrInputTooLong
		}
		return s, true, nil

	case KindURL:
		if s == "" {
			return nil, false, nil
		}
		if utf8.RuneCountInString(s) > MaxURLLength {
			return nil, false, core.ErrInputTooLong
		}
		if urlValidator.Var(s, "url") != nil {
			return nil, false, core.ErrInvalidURL
		}
		return s, true, nil

	case KindDate:
		if s == "" {
			return nil, false, nil
		}
		d, err := ParseDate(s)
		if err != nil {
			return nil, false, core.ErrInvalidDate
		}
		return d, true, nil

	case KindTime:
		if s == "" {
			return nil, false, nil
		}
		t, err := ParseTime(s)
		if err != nil {
			return nil, false, core.ErrInvalidTime
		}
		return t, true, nil

	default:
		return nil, false, fmt.Errorf("unknown field kind %d: %w", kind, core.ErrInvalidType)
	}
}

func typeError(kind Kind) error {
	switch kind {
	case KindDate:
		return core.ErrInvalidDate
	case KindTime:
		return core.ErrInvalidTime
	default:
		return core.ErrInvalidType
	}
}

// ParseDate accepts YYYY-MM-DD only.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(s))
}

// ParseTime accepts HH:MM:SS or HH:MM.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)

	t, err := time.Parse(TimeLayout, s)
	if err == nil {
		return t, nil
	}

	return time.Parse(timeLayoutShort, s)
}
