package liveview

import (
	"context"
	"sync"
	"time"

	"meetup/internal/messenger"

	"go.uber.org/zap"
)

// DefaultInterval is the re-render cadence
const DefaultInterval = 60 * time.Second

// View renders the current state of a live message
type View interface {
	Render(now time.Time) (string, messenger.Keyboard)
	// Finished reports whether the view stopped changing
	Finished(now time.Time) bool
}

// chatLock serializes Start/Cancel for one chat; refs counts holders and waiters
type chatLock struct {
	mu   sync.Mutex
	refs int
}

type handle struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Updater keeps at most one live loop per chat.
// Each loop edits its message in place until cancelled or its view is finished.
type Updater struct {
	sender   messenger.Sender
	logger   *zap.Logger
	interval time.Duration
	now      func() time.Time

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	loops   map[int64]*handle
	chatMux sync.Mutex
	chatMu  map[int64]*chatLock

	wg sync.WaitGroup
}

// Option configures an Updater
type Option func(*Updater)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		u.now = now
	}
}

// NewUpdater creates an updater; a non-positive interval falls back to DefaultInterval
func NewUpdater(sender messenger.Sender, interval time.Duration, logger *zap.Logger, opts ...Option) *Updater {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ctx, cancel := context.WithCancel(context.Background())
	u := &Updater{
		sender:   sender,
		logger:   logger,
		interval: interval,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		loops:    make(map[int64]*handle),
		chatMu:   make(map[int64]*chatLock),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// lockChat takes the chat's lock and returns its unlock.
// The lock entry lives only while someone holds or waits for it.
func (u *Updater) lockChat(chatID int64) (unlock func()) {
	u.chatMux.Lock()
	l, ok := u.chatMu[chatID]
	if !ok {
		l = &chatLock{}
		u.chatMu[chatID] = l
	}
	l.refs++
	u.chatMux.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()

		u.chatMux.Lock()
		l.refs--
		if l.refs == 0 {
			delete(u.chatMu, chatID)
		}
		u.chatMux.Unlock()
	}
}

// Start replaces the chat's live loop with a new one editing ref.
// When Start returns, the previous loop has exited and cannot edit anymore.
func (u *Updater) Start(ref messenger.MessageRef, view View) {
	unlock := u.lockChat(ref.ChatID)
	defer unlock()

	u.stopLocked(ref.ChatID)

	if u.ctx.Err() != nil {
		return
	}

	ctx, cancel := context.WithCancel(u.ctx)
	h := &handle{cancel: cancel, done: make(chan struct{})}

	u.mu.Lock()
	u.loops[ref.ChatID] = h
	u.mu.Unlock()

	u.wg.Add(1)
	go u.run(ctx, h, ref, view)

	u.logger.Debug("Live view started",
		zap.Int64("chat_id", ref.ChatID),
		zap.Int("message_id", ref.MessageID),
	)
}

// Cancel stops the chat's live loop. Safe to call when none is running.
func (u *Updater) Cancel(chatID int64) {
	unlock := u.lockChat(chatID)
	defer unlock()

	if u.stopLocked(chatID) {
		u.logger.Debug("Live view cancelled", zap.Int64("chat_id", chatID))
	}
}

// Active reports whether the chat has a live loop
func (u *Updater) Active(chatID int64) bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	_, ok := u.loops[chatID]
	return ok
}

// Stop cancels every loop and waits for them to exit. Start is a no-op afterwards.
func (u *Updater) Stop() {
	u.cancel()
	u.wg.Wait()

	u.mu.Lock()
	u.loops = make(map[int64]*handle)
	u.mu.Unlock()
}

// stopLocked removes, cancels and awaits the chat's loop. Caller holds the chat lock.
func (u *Updater) stopLocked(chatID int64) bool {
	u.mu.Lock()
	h, ok := u.loops[chatID]
	delete(u.loops, chatID)
	u.mu.Unlock()

	if !ok {
		return false
	}
	h.cancel()
	<-h.done
	return true
}

func (u *Updater) run(ctx context.Context, h *handle, ref messenger.MessageRef, view View) {
	defer u.wg.Done()
	defer close(h.done)
	defer h.cancel()

	timer := time.NewTimer(u.interval)
	defer timer.Stop()

	for {
		if view.Finished(u.now()) {
			u.release(ref.ChatID, h)
			u.logger.Debug("Live view finished", zap.Int64("chat_id", ref.ChatID))
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// Cancellation may race with the timer.
		if ctx.Err() != nil {
			return
		}

		now := u.now()
		text, kb := view.Render(now)
		if err := u.sender.Edit(ctx, ref, text, kb); err != nil {
			u.logger.Debug("Live view edit failed",
				zap.Int64("chat_id", ref.ChatID),
				zap.Int("message_id", ref.MessageID),
				zap.Error(err),
			)
		}

		timer.Reset(u.interval)
	}
}

// release drops the registry entry if it still belongs to h
func (u *Updater) release(chatID int64, h *handle) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.loops[chatID] == h {
		delete(u.loops, chatID)
	}
}
