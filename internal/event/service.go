// AngelaMos | 2026
// service.go

package event

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns one page of events ordered by date then time, with the
// total number of events.
func (s *Service) List(
	ctx context.Context,
	params ListEventsParams,
) ([]Event, int, error) {
	params.Normalize()

	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	events, err := s.repo.List(ctx, params.Offset(), params.PageSize)
	if err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Event, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Create(ctx context.Context, req CreateEventRequest) (*Event, error) {
	event, err := req.toEvent()
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}

	return event, nil
}

// Update applies a loosely typed partial update. An update that changes
// nothing returns the current event.
func (s *Service) Update(
	ctx context.Context,
	id int64,
	raw map[string]any,
) (*Event, error) {
	changes, err := Normalize(EventSchema, raw)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}

	if len(changes) == 0 {
		return s.repo.GetByID(ctx, id)
	}

	return s.repo.UpdateFields(ctx, id, changes)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
