package repository

import (
	"context"
	"time"

	"meetup/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist.

// UserRepository defines user and profile data operations
type UserRepository interface {
	GetOrCreateUser(ctx context.Context, u *domain.User) error
	CreateProfile(ctx context.Context, p *domain.UserProfile) error
	GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.UserProfile, error)
	GetProfileByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error)
	ListSubscribedChatIDs(ctx context.Context) ([]int64, error)
	UpdateProfileFlags(ctx context.Context, p *domain.UserProfile) error
}

// EventRepository defines event data operations
type EventRepository interface {
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Event, error)
}

// TalkRepository defines talk data operations
type TalkRepository interface {
	Create(ctx context.Context, t *domain.Talk) error
	Update(ctx context.Context, t *domain.Talk) error
	GetByID(ctx context.Context, id int64) (*domain.Talk, error)
	ListByEvent(ctx context.Context, eventID int64) ([]domain.Talk, error)
}

// QuestionRepository defines question data operations
type QuestionRepository interface {
	Create(ctx context.Context, q *domain.Question) error
	GetByID(ctx context.Context, id int64) (*domain.Question, error)
	SetAnswer(ctx context.Context, id int64, answer string) error
	ListByTalk(ctx context.Context, talkID int64) ([]domain.Question, error)
}
