package service

import (
	"context"
	"sync"

	"meetup/internal/domain"
	"meetup/internal/notify"

	"go.uber.org/zap"
)

// Lifecycle reacts to committed event and talk writes with notifications.
// Notifications run in the background on a context detached from the writer,
// so a caller that goes away after the commit does not cut the fanout short.
// Failures are logged only: the write has already happened.
type Lifecycle struct {
	registry   *SubscriberRegistry
	composer   *notify.Composer
	dispatcher *notify.Dispatcher
	logger     *zap.Logger

	wg sync.WaitGroup
}

// NewLifecycle creates the lifecycle hooks
func NewLifecycle(registry *SubscriberRegistry, composer *notify.Composer, dispatcher *notify.Dispatcher, logger *zap.Logger) *Lifecycle {
	return &Lifecycle{
		registry:   registry,
		composer:   composer,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

// EventCreated announces a new event to every subscriber
func (l *Lifecycle) EventCreated(ctx context.Context, e domain.Event) {
	msg := l.composer.NewEvent(e)
	l.spawn(ctx, func(ctx context.Context) {
		l.broadcast(ctx, "event_created", msg)
	})
}

// EventUpdated announces every saved edit of an event
func (l *Lifecycle) EventUpdated(ctx context.Context, e domain.Event) {
	msg := l.composer.EventUpdated(e)
	l.spawn(ctx, func(ctx context.Context) {
		l.broadcast(ctx, "event_updated", msg)
	})
}

// TalkCreated tells the speaker about the talk, then announces the program change
func (l *Lifecycle) TalkCreated(ctx context.Context, t domain.Talk) {
	l.spawn(ctx, func(ctx context.Context) {
		chatID, ok, err := l.registry.ResolveChatID(ctx, t.SpeakerID)
		switch {
		case err != nil:
			l.logger.Error("Failed to resolve speaker chat",
				zap.Int64("talk_id", t.ID),
				zap.Int64("speaker_id", t.SpeakerID),
				zap.Error(err),
			)
		case ok:
			// Delivery failures are already logged by the dispatcher.
			_ = l.dispatcher.NotifyOne(ctx, l.composer.SpeakerAssigned(t), chatID)
		}

		l.broadcast(ctx, "talk_created", l.composer.ProgramChanged(t, notify.TalkAdded))
	})
}

// TalkUpdated announces the change when old and updated differ materially
func (l *Lifecycle) TalkUpdated(ctx context.Context, old *domain.Talk, updated domain.Talk) {
	if !domain.TalkChanged(old, updated) {
		l.logger.Debug("Talk saved without material changes", zap.Int64("talk_id", updated.ID))
		return
	}
	msg := l.composer.ProgramChanged(updated, notify.TalkUpdated)
	l.spawn(ctx, func(ctx context.Context) {
		l.broadcast(ctx, "talk_updated", msg)
	})
}

// Wait blocks until every notification started so far is done or ctx expires
func (l *Lifecycle) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Lifecycle) spawn(ctx context.Context, fn func(ctx context.Context)) {
	detached := context.WithoutCancel(ctx)
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		fn(detached)
	}()
}

func (l *Lifecycle) broadcast(ctx context.Context, trigger string, msg notify.Message) {
	audience, err := l.registry.EligibleSubscribers(ctx)
	if err != nil {
		l.logger.Error("Failed to load subscribers",
			zap.String("trigger", trigger),
			zap.Error(err),
		)
		return
	}

	report := l.dispatcher.Notify(ctx, msg, audience)
	l.logger.Info("Lifecycle notification sent",
		zap.String("trigger", trigger),
		zap.Int("attempted", report.Attempted),
		zap.Int("delivered", report.Delivered),
	)
}
