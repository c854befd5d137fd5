package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"meetup/internal/domain"
)

// TalkRepo implements repository.TalkRepository
type TalkRepo struct {
	db *sql.DB
}

// NewTalkRepo creates a new talk repository
func NewTalkRepo(db *sql.DB) *TalkRepo {
	return &TalkRepo{db: db}
}

const talkSelect = `
	SELECT t.id, t.event_id, e.title, e.date, t.speaker_id, u.username, u.first_name, u.last_name,
		t.title, t.description, t.start_time, t.end_time
	FROM talks t
	JOIN events e ON e.id = t.event_id
	JOIN users u ON u.id = t.speaker_id
`

func scanTalk(row rowScanner) (*domain.Talk, error) {
	var t domain.Talk
	err := row.Scan(
		&t.ID, &t.EventID, &t.EventTitle, &t.EventDate,
		&t.SpeakerID, &t.Speaker.Username, &t.Speaker.FirstName, &t.Speaker.LastName,
		&t.Title, &t.Description, &t.Start, &t.End,
	)
	if err != nil {
		return nil, err
	}
	t.Speaker.ID = t.SpeakerID
	return &t, nil
}

func queryTalks(ctx context.Context, db *sql.DB, where string, args ...any) ([]domain.Talk, error) {
	rows, err := db.QueryContext(ctx, talkSelect+where+` ORDER BY t.event_id, t.start_time`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var talks []domain.Talk
	for rows.Next() {
		t, err := scanTalk(rows)
		if err != nil {
			return nil, err
		}
		talks = append(talks, *t)
	}

	return talks, rows.Err()
}

// Create inserts a talk and fills t.ID
func (r *TalkRepo) Create(ctx context.Context, t *domain.Talk) error {
	query := `
		INSERT INTO talks (event_id, speaker_id, title, description, start_time, end_time)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query,
		t.EventID, t.SpeakerID, t.Title, t.Description, t.Start, t.End,
	).Scan(&t.ID)
}

// Update overwrites the editable talk fields
func (r *TalkRepo) Update(ctx context.Context, t *domain.Talk) error {
	query := `
		UPDATE talks
		SET event_id = $1, speaker_id = $2, title = $3, description = $4, start_time = $5, end_time = $6
		WHERE id = $7
	`
	res, err := r.db.ExecContext(ctx, query,
		t.EventID, t.SpeakerID, t.Title, t.Description, t.Start, t.End, t.ID,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrTalkNotFound
	}
	return nil
}

// GetByID returns a talk with its speaker and event header
func (r *TalkRepo) GetByID(ctx context.Context, id int64) (*domain.Talk, error) {
	t, err := scanTalk(r.db.QueryRowContext(ctx, talkSelect+` WHERE t.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// ListByEvent returns talks of an event ordered by start time
func (r *TalkRepo) ListByEvent(ctx context.Context, eventID int64) ([]domain.Talk, error) {
	return queryTalks(ctx, r.db, ` WHERE t.event_id = $1`, eventID)
}

// listByEvents returns talks of several events in one round trip
func listByEvents(ctx context.Context, db *sql.DB, eventIDs []int64) ([]domain.Talk, error) {
	if len(eventIDs) == 0 {
		return nil, nil
	}
	return queryTalks(ctx, db, ` WHERE t.event_id = ANY($1)`, pq.Array(eventIDs))
}
