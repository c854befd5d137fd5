package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"meetup/internal/domain"
	"meetup/internal/repository"

	"go.uber.org/zap"
)

// activeLookback bounds the events considered when looking for the active one
const activeLookback = 24 * time.Hour

// EventService is the write path for events; every committed write runs the lifecycle hooks
type EventService struct {
	eventRepo repository.EventRepository
	hooks     *Lifecycle
	loc       *time.Location
	logger    *zap.Logger
}

// NewEventService creates a new event service
func NewEventService(eventRepo repository.EventRepository, hooks *Lifecycle, loc *time.Location, logger *zap.Logger) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		hooks:     hooks,
		loc:       loc,
		logger:    logger,
	}
}

// Create stores a new event and announces it
func (s *EventService) Create(ctx context.Context, e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title: %w", domain.ErrEmptyText)
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return fmt.Errorf("create event: %w", err)
	}

	s.logger.Info("Event created", zap.Int64("event_id", e.ID))
	s.hooks.EventCreated(ctx, *e)
	return nil
}

// Update stores an edited event and always announces it
func (s *EventService) Update(ctx context.Context, e *domain.Event) error {
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event title: %w", domain.ErrEmptyText)
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		return fmt.Errorf("update event %d: %w", e.ID, err)
	}

	s.logger.Info("Event updated", zap.Int64("event_id", e.ID))
	s.hooks.EventUpdated(ctx, *e)
	return nil
}

// Get returns an event with its talks
func (s *EventService) Get(ctx context.Context, id int64) (*domain.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event %d: %w", id, err)
	}
	if e == nil {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

// List returns events dated at or after since
func (s *EventService) List(ctx context.Context, since time.Time) ([]domain.Event, error) {
	events, err := s.eventRepo.ListSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// ActiveEvent returns the earliest event still active at now, or nil
func (s *EventService) ActiveEvent(ctx context.Context, now time.Time) (*domain.Event, error) {
	events, err := s.List(ctx, now.Add(-activeLookback))
	if err != nil {
		return nil, err
	}
	for i := range events {
		if events[i].IsActive(now, s.loc) {
			return &events[i], nil
		}
	}
	return nil, nil
}
