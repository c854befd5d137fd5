package pending

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestTracker(ttl time.Duration, clock *time.Time) *Tracker {
	tr := NewTracker(ttl)
	tr.now = func() time.Time { return *clock }
	return tr
}

func TestTracker_SetTake(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(time.Hour, &now)

	_, ok := tr.Take(1)
	assert.False(t, ok, "nothing pending yet")

	tr.Set(1, ForQuestion(5))
	tok, ok := tr.Take(1)
	assert.True(t, ok)
	assert.Equal(t, Token{Kind: KindQuestion, TargetID: 5}, tok)

	_, ok = tr.Take(1)
	assert.False(t, ok, "token must be consumed once")
}

func TestTracker_SetReplaces(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(time.Hour, &now)

	tr.Set(1, ForQuestion(5))
	tr.Set(1, ForAnswer(9))

	tok, ok := tr.Take(1)
	assert.True(t, ok)
	assert.Equal(t, ForAnswer(9), tok)
	assert.Equal(t, "answer", tok.Kind.String())
}

func TestTracker_Clear(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(time.Hour, &now)

	tr.Clear(1)
	tr.Set(1, ForQuestion(5))
	tr.Set(2, ForQuestion(6))
	tr.Clear(1)

	_, ok := tr.Take(1)
	assert.False(t, ok)
	_, ok = tr.Take(2)
	assert.True(t, ok, "other participants are untouched")
}

func TestTracker_Expiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(time.Hour, &now)

	tr.Set(1, ForQuestion(5))
	tr.Set(2, ForQuestion(6))
	now = now.Add(30 * time.Minute)
	tr.Set(3, ForAnswer(7))

	now = now.Add(31 * time.Minute)
	_, ok := tr.Take(1)
	assert.False(t, ok, "expired token is absent")

	assert.Equal(t, 1, tr.Sweep(now))
	assert.Equal(t, 1, tr.Len())

	tok, ok := tr.Take(3)
	assert.True(t, ok)
	assert.Equal(t, ForAnswer(7), tok)
}

func TestTracker_NoTTL(t *testing.T) {
	now := time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)
	tr := newTestTracker(0, &now)

	tr.Set(1, ForQuestion(5))
	now = now.Add(24 * 365 * time.Hour)

	assert.Equal(t, 0, tr.Sweep(now))
	_, ok := tr.Take(1)
	assert.True(t, ok)
}

func TestTracker_ConcurrentTake(t *testing.T) {
	tr := NewTracker(time.Hour)
	tr.Set(1, ForQuestion(5))

	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := tr.Take(1); ok {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, taken)
}
