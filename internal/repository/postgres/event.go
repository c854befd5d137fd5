package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"meetup/internal/domain"
)

// EventRepo implements repository.EventRepository
type EventRepo struct {
	db *sql.DB
}

// NewEventRepo creates a new event repository
func NewEventRepo(db *sql.DB) *EventRepo {
	return &EventRepo{db: db}
}

// Create inserts an event and fills e.ID
func (r *EventRepo) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, date, description)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, e.Title, e.Date, e.Description).Scan(&e.ID)
}

// Update overwrites title, date and description
func (r *EventRepo) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, date = $2, description = $3
		WHERE id = $4
	`
	res, err := r.db.ExecContext(ctx, query, e.Title, e.Date, e.Description, e.ID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// GetByID returns an event with its talks
func (r *EventRepo) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	var e domain.Event
	query := `SELECT id, title, date, description FROM events WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&e.ID, &e.Title, &e.Date, &e.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	talks, err := queryTalks(ctx, r.db, ` WHERE t.event_id = $1`, e.ID)
	if err != nil {
		return nil, err
	}
	e.Talks = talks

	return &e, nil
}

// ListSince returns events starting at or after since, earliest first, with their talks
func (r *EventRepo) ListSince(ctx context.Context, since time.Time) ([]domain.Event, error) {
	query := `
		SELECT id, title, date, description
		FROM events
		WHERE date >= $1
		ORDER BY date
	`
	rows, err := r.db.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	index := make(map[int64]int)
	var ids []int64
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Date, &e.Description); err != nil {
			return nil, err
		}
		index[e.ID] = len(events)
		ids = append(ids, e.ID)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	talks, err := listByEvents(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for _, t := range talks {
		i := index[t.EventID]
		events[i].Talks = append(events[i].Talks, t)
	}

	return events, nil
}
