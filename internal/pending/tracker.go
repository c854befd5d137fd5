package pending

import (
	"sync"
	"time"
)

// Kind is the input a participant is expected to send next
type Kind int

const (
	// KindQuestion awaits question text for a talk
	KindQuestion Kind = iota + 1
	// KindAnswer awaits answer text for a question
	KindAnswer
)

func (k Kind) String() string {
	switch k {
	case KindQuestion:
		return "question"
	case KindAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// Token describes the expected next input and its target entity
type Token struct {
	Kind     Kind
	TargetID int64
}

// ForQuestion expects question text for talkID
func ForQuestion(talkID int64) Token {
	return Token{Kind: KindQuestion, TargetID: talkID}
}

// ForAnswer expects answer text for questionID
func ForAnswer(questionID int64) Token {
	return Token{Kind: KindAnswer, TargetID: questionID}
}

type entry struct {
	token Token
	setAt time.Time
}

// Tracker maps participants to their pending interaction.
// Entries older than ttl are treated as absent.
type Tracker struct {
	mu      sync.Mutex
	entries map[int64]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewTracker creates a tracker. A non-positive ttl keeps entries until taken.
func NewTracker(ttl time.Duration) *Tracker {
	return &Tracker{
		entries: make(map[int64]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Set replaces whatever the participant had pending
func (t *Tracker) Set(participant int64, token Token) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[participant] = entry{token: token, setAt: t.now()}
}

// Take returns and removes the pending token
func (t *Tracker) Take(participant int64) (Token, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, ok := t.entries[participant]
	if !ok {
		return Token{}, false
	}
	delete(t.entries, participant)
	if t.expired(e, t.now()) {
		return Token{}, false
	}
	return e.token, true
}

// Clear drops the pending token, if any
func (t *Tracker) Clear(participant int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, participant)
}

// Len returns the number of stored entries, expired ones included
func (t *Tracker) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

// Sweep removes expired entries and returns how many were dropped
func (t *Tracker) Sweep(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for participant, e := range t.entries {
		if t.expired(e, now) {
			delete(t.entries, participant)
			removed++
		}
	}
	return removed
}

func (t *Tracker) expired(e entry, now time.Time) bool {
	return t.ttl > 0 && now.Sub(e.setAt) > t.ttl
}
