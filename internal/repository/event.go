package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/karanj/evently/internal/model"
)

const eventColumns = `id, title, description, date, location, capacity,
	booked_seats, price, created_by, priority, is_completed, created_at, updated_at`

// EventRepository handles persistence for events. Every read and write is
// filtered by (id, created_by) in a single statement so ownership checks are
// atomic find-and-modify, never read-then-write.
type EventRepository struct {
	db *pgxpool.Pool
}

// NewEventRepository constructs an EventRepository.
func NewEventRepository(db *pgxpool.Pool) *EventRepository {
	return &EventRepository{db: db}
}

// Create inserts a new event owned by ownerID and returns it with a generated UUID.
func (r *EventRepository) Create(ctx context.Context, ownerID string, req model.CreateEventRequest) (*model.Event, error) {
	now := time.Now().UTC()
	event := &model.Event{
		ID:          uuid.New().String(),
		Title:       req.Title,
		Description: req.Description,
		Date:        req.Date.UTC(),
		Location:    req.Location,
		Capacity:    req.Capacity,
		BookedSeats: 0,
		Price:       req.Price,
		CreatedBy:   ownerID,
		Priority:    model.PriorityLow,
		IsCompleted: false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO events (id, title, description, date, location, capacity,
		 booked_seats, price, created_by, priority, is_completed, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		event.ID, event.Title, event.Description, event.Date, event.Location, event.Capacity,
		event.BookedSeats, event.Price, event.CreatedBy, event.Priority, event.IsCompleted,
		event.CreatedAt, event.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return event, nil
}

// ListByOwner returns all events owned by ownerID ordered by date ascending.
func (r *EventRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Event, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+eventColumns+`
		 FROM events
		 WHERE created_by = $1
		 ORDER BY date ASC`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// UpdatePriority sets the priority of an owned event and returns the new state,
// or model.ErrNotFound when no event matches (id, owner).
func (r *EventRepository) UpdatePriority(ctx context.Context, ownerID, eventID string, priority model.Priority) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE events
		 SET priority = $1, updated_at = $2
		 WHERE id = $3 AND created_by = $4
		 RETURNING `+eventColumns,
		priority, time.Now().UTC(), eventID, ownerID,
	)

	var e model.Event
	if err := scanEvent(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("update priority: %w", err)
	}
	return &e, nil
}

// MarkComplete sets is_completed on an owned event and returns the new state,
// or model.ErrNotFound when no event matches (id, owner).
func (r *EventRepository) MarkComplete(ctx context.Context, ownerID, eventID string) (*model.Event, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE events
		 SET is_completed = TRUE, updated_at = $1
		 WHERE id = $2 AND created_by = $3
		 RETURNING `+eventColumns,
		time.Now().UTC(), eventID, ownerID,
	)

	var e model.Event
	if err := scanEvent(row, &e); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNotFound
		}
		return nil, fmt.Errorf("mark complete: %w", err)
	}
	return &e, nil
}

// Delete removes an owned event permanently, or returns model.ErrNotFound when
// no event matches (id, owner).
func (r *EventRepository) Delete(ctx context.Context, ownerID, eventID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM events WHERE id = $1 AND created_by = $2`,
		eventID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func scanEvent(row pgx.Row, e *model.Event) error {
	return row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Capacity,
		&e.BookedSeats, &e.Price, &e.CreatedBy, &e.Priority, &e.IsCompleted,
		&e.CreatedAt, &e.UpdatedAt,
	)
}
