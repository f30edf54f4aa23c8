package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/karanj/evently/internal/model"
)

// EventStore is the persistence surface the event service depends on. Every
// mutating operation matches (id, owner) atomically in the store.
type EventStore interface {
	Create(ctx context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error)
	UpdatePriority(ctx context.Context, ownerID, eventID string, priority model.Priority) (*model.Event, error)
	MarkComplete(ctx context.Context, ownerID, eventID string) (*model.Event, error)
	Delete(ctx context.Context, ownerID, eventID string) error
}

// EventService implements owner-scoped CRUD over events.
type EventService struct {
	events   EventStore
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewEventService constructs an EventService.
func NewEventService(events EventStore, logger zerolog.Logger) *EventService {
	return &EventService{
		events:   events,
		validate: validator.New(),
		logger:   logger.With().Str("component", "events").Logger(),
	}
}

// Create persists a new event owned by ownerID.
func (s *EventService) Create(ctx context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := s.validate.Struct(req); err != nil {
		return nil, asValidationError(err)
	}

	event, err := s.events.Create(ctx, ownerID, req)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.logger.Info().Str("event_id", event.ID).Str("owner", ownerID).Msg("event created")
	return event, nil
}

// ListMine returns all events owned by ownerID ordered by date ascending.
func (s *EventService) ListMine(ctx context.Context, ownerID string) ([]model.Event, error) {
	events, err := s.events.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

// UpdatePriority changes the priority of an owned event.
func (s *EventService) UpdatePriority(ctx context.Context, ownerID, eventID, priority string) (*model.Event, error) {
	p, err := model.ParsePriority(priority)
	if err != nil {
		return nil, model.ErrInvalidPriority
	}

	event, err := s.events.UpdatePriority(ctx, ownerID, eventID, p)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("update priority: %w", err)
	}
	return event, nil
}

// MarkComplete flags an owned event as completed.
func (s *EventService) MarkComplete(ctx context.Context, ownerID, eventID string) (*model.Event, error) {
	event, err := s.events.MarkComplete(ctx, ownerID, eventID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("mark complete: %w", err)
	}
	return event, nil
}

// Delete removes an owned event permanently.
func (s *EventService) Delete(ctx context.Context, ownerID, eventID string) error {
	if err := s.events.Delete(ctx, ownerID, eventID); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.logger.Info().Str("event_id", eventID).Str("owner", ownerID).Msg("event deleted")
	return nil
}
