package postgres

import (
	"context"
	"database/sql"
	"errors"

	"meetup/internal/domain"
)

// QuestionRepo implements repository.QuestionRepository
type QuestionRepo struct {
	db *sql.DB
}

// NewQuestionRepo creates a new question repository
func NewQuestionRepo(db *sql.DB) *QuestionRepo {
	return &QuestionRepo{db: db}
}

const questionSelect = `
	SELECT q.id, q.talk_id, q.user_id, q.text, q.answer, q.created_at,
		t.title, t.speaker_id, t.event_id,
		a.username, a.first_name, a.last_name
	FROM questions q
	JOIN talks t ON t.id = q.talk_id
	LEFT JOIN users a ON a.id = q.user_id
`

func scanQuestion(row rowScanner) (*domain.Question, error) {
	var q domain.Question
	var userID sql.NullInt64
	var answer, username, firstName, lastName sql.NullString
	err := row.Scan(
		&q.ID, &q.TalkID, &userID, &q.Text, &answer, &q.CreatedAt,
		&q.Talk.Title, &q.Talk.SpeakerID, &q.Talk.EventID,
		&username, &firstName, &lastName,
	)
	if err != nil {
		return nil, err
	}
	q.Talk.ID = q.TalkID
	if userID.Valid {
		id := userID.Int64
		q.UserID = &id
		q.Asker = &domain.User{
			ID:        id,
			Username:  username.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
	}
	if answer.Valid {
		a := answer.String
		q.Answer = &a
	}
	return &q, nil
}

// Create inserts a question and fills ID and CreatedAt
func (r *QuestionRepo) Create(ctx context.Context, q *domain.Question) error {
	query := `
		INSERT INTO questions (talk_id, user_id, text)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`
	var userID sql.NullInt64
	if q.UserID != nil {
		userID = sql.NullInt64{Int64: *q.UserID, Valid: true}
	}
	return r.db.QueryRowContext(ctx, query, q.TalkID, userID, q.Text).Scan(&q.ID, &q.CreatedAt)
}

// GetByID returns a question with its talk header and asker
func (r *QuestionRepo) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	q, err := scanQuestion(r.db.QueryRowContext(ctx, questionSelect+` WHERE q.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return q, err
}

// SetAnswer stores the speaker answer, overwriting a previous one
func (r *QuestionRepo) SetAnswer(ctx context.Context, id int64, answer string) error {
	query := `UPDATE questions SET answer = $1 WHERE id = $2`
	res, err := r.db.ExecContext(ctx, query, answer, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrQuestionNotFound
	}
	return nil
}

// ListByTalk returns questions of a talk, newest first
func (r *QuestionRepo) ListByTalk(ctx context.Context, talkID int64) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx, questionSelect+` WHERE q.talk_id = $1 ORDER BY q.created_at DESC`, talkID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}

	return questions, rows.Err()
}
