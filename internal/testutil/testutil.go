package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"meetup/internal/domain"
	"meetup/internal/i18n"
	"meetup/internal/messenger"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestTranslator loads the embedded catalog
func NewTestTranslator(t testing.TB) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator("ru", zap.NewNop())
	if err != nil {
		t.Fatalf("load translations: %v", err)
	}
	return tr
}

// NewTestEvent creates an event on 2025-06-01 18:00 UTC
func NewTestEvent(id int64, talks ...domain.Talk) *domain.Event {
	date := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	for i := range talks {
		talks[i].EventID = id
		talks[i].EventTitle = "Go meetup"
		talks[i].EventDate = date
	}
	return &domain.Event{
		ID:          id,
		Title:       "Go meetup",
		Date:        date,
		Description: "Evening of Go talks",
		Talks:       talks,
	}
}

// NewTestTalk creates a talk on 2025-06-01 between start and end hours
func NewTestTalk(id, speakerID int64, title string, startHour, endHour int) *domain.Talk {
	return &domain.Talk{
		ID:          id,
		EventID:     1,
		EventTitle:  "Go meetup",
		EventDate:   time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC),
		SpeakerID:   speakerID,
		Speaker:     domain.User{ID: speakerID, Username: "speaker"},
		Title:       title,
		Description: "About " + title,
		Start:       domain.TimeOfDay{Hour: startHour},
		End:         domain.TimeOfDay{Hour: endHour},
	}
}

// NewTestProfile creates a profile bound to a chat
func NewTestProfile(userID, telegramID int64, speaker bool) *domain.UserProfile {
	return &domain.UserProfile{
		ID:         userID,
		UserID:     userID,
		User:       domain.User{ID: userID, Username: "user"},
		TelegramID: telegramID,
		IsSpeaker:  speaker,
		Subscribed: true,
	}
}

// SentMessage is a message captured by RecordingSender
type SentMessage struct {
	ChatID   int64
	Ref      messenger.MessageRef
	Text     string
	Keyboard messenger.Keyboard
	Edit     bool
}

// RecordingSender records sends and edits; safe for concurrent use.
// Like the Telegram sender it refuses to send on a done context, and such calls are not recorded.
type RecordingSender struct {
	mu       sync.Mutex
	nextID   int
	messages []SentMessage
	// FailChats makes Send fail for these chats
	FailChats map[int64]bool
	// EditErr is returned from every Edit when set
	EditErr error
}

func (s *RecordingSender) Send(ctx context.Context, chatID int64, text string, kb messenger.Keyboard) (messenger.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return messenger.MessageRef{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	ref := messenger.MessageRef{ChatID: chatID, MessageID: s.nextID}
	s.messages = append(s.messages, SentMessage{ChatID: chatID, Ref: ref, Text: text, Keyboard: kb})
	if s.FailChats[chatID] {
		return messenger.MessageRef{}, errSendFailed
	}
	return ref, nil
}

func (s *RecordingSender) Edit(ctx context.Context, ref messenger.MessageRef, text string, kb messenger.Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, SentMessage{ChatID: ref.ChatID, Ref: ref, Text: text, Keyboard: kb, Edit: true})
	return s.EditErr
}

// Messages returns a copy of everything recorded so far
func (s *RecordingSender) Messages() []SentMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]SentMessage, len(s.messages))
	copy(out, s.messages)
	return out
}

// Edits returns recorded edits of one message
func (s *RecordingSender) Edits(ref messenger.MessageRef) []SentMessage {
	var out []SentMessage
	for _, m := range s.Messages() {
		if m.Edit && m.Ref == ref {
			out = append(out, m)
		}
	}
	return out
}

// SentTo returns recorded sends (not edits) to a chat
func (s *RecordingSender) SentTo(chatID int64) []SentMessage {
	var out []SentMessage
	for _, m := range s.Messages() {
		if !m.Edit && m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

type sendError string

func (e sendError) Error() string { return string(e) }

const errSendFailed = sendError("bot was blocked by the user")
