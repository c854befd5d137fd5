package testutil

import (
	"context"
	"time"

	"meetup/internal/domain"
	"meetup/internal/messenger"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock for UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetOrCreateUser(ctx context.Context, u *domain.User) error {
	args := m.Called(ctx, u)
	return args.Error(0)
}

func (m *MockUserRepository) CreateProfile(ctx context.Context, p *domain.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockUserRepository) GetProfileByTelegramID(ctx context.Context, telegramID int64) (*domain.UserProfile, error) {
	args := m.Called(ctx, telegramID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) GetProfileByUserID(ctx context.Context, userID int64) (*domain.UserProfile, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UserProfile), args.Error(1)
}

func (m *MockUserRepository) ListSubscribedChatIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockUserRepository) UpdateProfileFlags(ctx context.Context, p *domain.UserProfile) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

// MockEventRepository is a mock for EventRepository
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) Update(ctx context.Context, e *domain.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, id int64) (*domain.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Event), args.Error(1)
}

func (m *MockEventRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Event, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Event), args.Error(1)
}

// MockTalkRepository is a mock for TalkRepository
type MockTalkRepository struct {
	mock.Mock
}

func (m *MockTalkRepository) Create(ctx context.Context, t *domain.Talk) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTalkRepository) Update(ctx context.Context, t *domain.Talk) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTalkRepository) GetByID(ctx context.Context, id int64) (*domain.Talk, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Talk), args.Error(1)
}

func (m *MockTalkRepository) ListByEvent(ctx context.Context, eventID int64) ([]domain.Talk, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Talk), args.Error(1)
}

// MockQuestionRepository is a mock for QuestionRepository
type MockQuestionRepository struct {
	mock.Mock
}

func (m *MockQuestionRepository) Create(ctx context.Context, q *domain.Question) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuestionRepository) GetByID(ctx context.Context, id int64) (*domain.Question, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Question), args.Error(1)
}

func (m *MockQuestionRepository) SetAnswer(ctx context.Context, id int64, answer string) error {
	args := m.Called(ctx, id, answer)
	return args.Error(0)
}

func (m *MockQuestionRepository) ListByTalk(ctx context.Context, talkID int64) ([]domain.Question, error) {
	args := m.Called(ctx, talkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Question), args.Error(1)
}

// MockSender is a mock for messenger.Sender
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, chatID int64, text string, kb messenger.Keyboard) (messenger.MessageRef, error) {
	args := m.Called(ctx, chatID, text, kb)
	return args.Get(0).(messenger.MessageRef), args.Error(1)
}

func (m *MockSender) Edit(ctx context.Context, ref messenger.MessageRef, text string, kb messenger.Keyboard) error {
	args := m.Called(ctx, ref, text, kb)
	return args.Error(0)
}
