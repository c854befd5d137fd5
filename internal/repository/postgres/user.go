package postgres

import (
	"context"
	"database/sql"
	"errors"

	"meetup/internal/domain"
)

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// UserRepo implements repository.UserRepository
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

const profileSelect = `
	SELECT p.id, p.user_id, p.telegram_id, p.is_speaker, p.is_organizer, p.subscribed_to_notifications,
		u.username, u.first_name, u.last_name
	FROM user_profiles p
	JOIN users u ON u.id = p.user_id
`

func scanProfile(row rowScanner) (*domain.UserProfile, error) {
	var p domain.UserProfile
	var telegramID sql.NullInt64
	err := row.Scan(
		&p.ID, &p.UserID, &telegramID, &p.IsSpeaker, &p.IsOrganizer, &p.Subscribed,
		&p.User.Username, &p.User.FirstName, &p.User.LastName,
	)
	if err != nil {
		return nil, err
	}
	p.User.ID = p.UserID
	if telegramID.Valid {
		p.TelegramID = telegramID.Int64
	}
	return &p, nil
}

// GetOrCreateUser inserts the user or reuses the row with the same username, filling u.ID
func (r *UserRepo) GetOrCreateUser(ctx context.Context, u *domain.User) error {
	query := `
		INSERT INTO users (username, first_name, last_name)
		VALUES ($1, $2, $3)
		ON CONFLICT (username)
		DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`
	return r.db.QueryRowContext(ctx, query, u.Username, u.FirstName, u.LastName).Scan(&u.ID)
}

// CreateProfile creates a profile; an existing profile for the same user or chat is kept as is
func (r *UserRepo) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	query := `
		INSERT INTO user_profiles (user_id, telegram_id, is_speaker, is_organizer, subscribed_to_notifications)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING
		RETURNING id
	`
	telegramID := sql.NullInt64{Int64: p.TelegramID, Valid: p.TelegramID != 0}
	err := r.db.QueryRowContext(ctx, query, p.UserID, telegramID, p.IsSpeaker, p.IsOrganizer, p.Subscribed).Scan(&p.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Profile already exists
		return nil
	}
	return err
}

// GetProfileByTelegramID returns the profile bound to a chat
func (r *UserRepo) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.UserProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, profileSelect+` WHERE p.telegram_id = $1`, telegramID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// GetProfileByUserID returns the profile of a user
func (r *UserRepo) GetProfileByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, profileSelect+` WHERE p.user_id = $1`, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return p, err
}

// ListSubscribedChatIDs returns chats of profiles subscribed to notifications
func (r *UserRepo) ListSubscribedChatIDs(ctx context.Context) ([]int64, error) {
	query := `
		SELECT telegram_id
		FROM user_profiles
		WHERE subscribed_to_notifications = TRUE
			AND telegram_id IS NOT NULL
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// UpdateProfileFlags stores role and subscription flags of the profile bound to p.TelegramID
func (r *UserRepo) UpdateProfileFlags(ctx context.Context, p *domain.UserProfile) error {
	query := `
		UPDATE user_profiles
		SET is_speaker = $1, is_organizer = $2, subscribed_to_notifications = $3
		WHERE telegram_id = $4
	`
	res, err := r.db.ExecContext(ctx, query, p.IsSpeaker, p.IsOrganizer, p.Subscribed, p.TelegramID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrProfileNotFound
	}
	return nil
}
