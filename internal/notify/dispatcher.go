package notify

import (
	"context"

	"meetup/internal/messenger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Report summarizes one fanout
type Report struct {
	Attempted int
	Delivered int
	Failed    []int64
}

// Dispatcher fans messages out to chats, best effort.
// A failed recipient is logged and skipped; it never stops the rest.
type Dispatcher struct {
	sender  messenger.Sender
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewDispatcher creates a dispatcher sending at most ratePerSec messages per second.
// A non-positive rate disables throttling.
func NewDispatcher(sender messenger.Sender, ratePerSec int, logger *zap.Logger) *Dispatcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if ratePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(ratePerSec), ratePerSec)
	}
	return &Dispatcher{
		sender:  sender,
		limiter: limiter,
		logger:  logger,
	}
}

// Notify sends msg once to every chat in audience
func (d *Dispatcher) Notify(ctx context.Context, msg Message, audience []int64) Report {
	report := Report{}
	for _, chatID := range audience {
		// A cancelled wait still lets the send through; the sender reports the failure.
		_ = d.limiter.Wait(ctx)

		report.Attempted++
		if _, err := d.sender.Send(ctx, chatID, msg.Text, msg.Keyboard); err != nil {
			d.logger.Warn("Failed to deliver notification",
				zap.Int64("chat_id", chatID),
				zap.Error(err),
			)
			report.Failed = append(report.Failed, chatID)
			continue
		}
		report.Delivered++
	}

	d.logger.Info("Notification fanout finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("delivered", report.Delivered),
		zap.Int("failed", len(report.Failed)),
	)
	return report
}

// NotifyOne sends msg to a single chat
func (d *Dispatcher) NotifyOne(ctx context.Context, msg Message, chatID int64) error {
	_ = d.limiter.Wait(ctx)
	if _, err := d.sender.Send(ctx, chatID, msg.Text, msg.Keyboard); err != nil {
		d.logger.Warn("Failed to deliver notification",
			zap.Int64("chat_id", chatID),
			zap.Error(err),
		)
		return err
	}
	return nil
}
