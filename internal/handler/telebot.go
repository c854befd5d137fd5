package handler

import (
	"context"
	"time"

	"meetup/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// updateTimeout bounds the work done for one inbound update
const updateTimeout = 30 * time.Second

// RegisterHandlers registers all bot handlers
func (h *Handler) RegisterHandlers(bot *tele.Bot) {
	// Commands
	bot.Handle("/start", h.onStart)
	bot.Handle("/stop", h.onStop)

	// Text messages
	bot.Handle(tele.OnText, h.onText)

	// All inline buttons carry raw data
	bot.Handle(tele.OnCallback, h.onCallback)
}

func (h *Handler) onStart(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	if err := h.HandleStart(ctx, updateFrom(c)); err != nil {
		h.logger.Error("Failed to handle /start", zap.Error(err))
		return c.Send(h.tr.T("bot.error", nil))
	}
	return nil
}

func (h *Handler) onStop(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	return h.HandleStop(ctx, updateFrom(c))
}

func (h *Handler) onText(c tele.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	if err := h.HandleText(ctx, updateFrom(c)); err != nil {
		h.logger.Error("Failed to handle text", zap.Error(err))
	}
	return nil
}

func (h *Handler) onCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		h.logger.Warn("onCallback: callback is nil")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), updateTimeout)
	defer cancel()

	ack, err := h.HandleCallback(ctx, updateFrom(c))
	if err != nil {
		h.logger.Error("Failed to handle callback",
			zap.String("data", callback.Data),
			zap.Int64("user_id", c.Sender().ID),
			zap.Error(err),
		)
		ack = h.tr.T("bot.error", nil)
	}

	// Always acknowledge so the client stops its spinner
	if ackErr := c.Respond(&tele.CallbackResponse{Text: ack}); ackErr != nil {
		h.logger.Warn("Failed to acknowledge callback", zap.Error(ackErr))
	}
	return nil
}

// updateFrom converts a telebot context into an Update
func updateFrom(c tele.Context) Update {
	u := Update{Text: c.Text()}
	if chat := c.Chat(); chat != nil {
		u.ChatID = chat.ID
	}
	if sender := c.Sender(); sender != nil {
		u.Sender = service.ChatUser{
			TelegramID: sender.ID,
			Username:   sender.Username,
			FirstName:  sender.FirstName,
			LastName:   sender.LastName,
		}
	}
	if cb := c.Callback(); cb != nil {
		u.Text = cb.Data
		if cb.Message != nil {
			u.MessageID = cb.Message.ID
		}
	}
	return u
}
