package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"

	"meetup/internal/domain"
	"meetup/internal/pending"

	"go.uber.org/zap"
)

// Callback payloads
const (
	dataRegister    = "register"
	dataBackProgram = "back_program"
	prefixTalk      = "talk_"
	prefixAsk       = "ask_"
	prefixReply     = "reply_"
)

// cleanCallbackData removes all non-printable characters from callback data
func cleanCallbackData(data string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) {
			return r
		}
		return -1
	}, strings.TrimSpace(data))
}

// parseID extracts the numeric suffix of "<prefix><id>"
func parseID(data, prefix string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimPrefix(data, prefix), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// HandleCallback handles a button press and returns the text to acknowledge it with
func (h *Handler) HandleCallback(ctx context.Context, u Update) (string, error) {
	data := cleanCallbackData(u.Text)
	h.logger.Debug("Processing callback",
		zap.String("data", data),
		zap.Int64("user_id", u.Participant()),
	)

	switch {
	case data == dataRegister:
		return h.handleRegister(ctx, u)
	case data == dataBackProgram:
		return "", h.showProgram(ctx, u.ChatID, u.messageRef())
	case strings.HasPrefix(data, prefixTalk):
		id, ok := parseID(data, prefixTalk)
		if !ok {
			break
		}
		return h.handleTalk(ctx, u, id)
	case strings.HasPrefix(data, prefixAsk):
		id, ok := parseID(data, prefixAsk)
		if !ok {
			break
		}
		h.pending.Set(u.Participant(), pending.ForQuestion(id))
		return "", h.reply(ctx, u.ChatID, h.tr.T("bot.ask_prompt", nil))
	case strings.HasPrefix(data, prefixReply):
		id, ok := parseID(data, prefixReply)
		if !ok {
			break
		}
		h.pending.Set(u.Participant(), pending.ForAnswer(id))
		return "", h.reply(ctx, u.ChatID, h.tr.T("bot.answer_prompt", nil))
	}

	h.logger.Warn("Unhandled callback", zap.String("data", data))
	return "", nil
}

func (h *Handler) handleRegister(ctx context.Context, u Update) (string, error) {
	if _, err := h.profiles.Register(ctx, u.Sender); err != nil {
		return "", err
	}
	if err := h.showProgram(ctx, u.ChatID, u.messageRef()); err != nil {
		return "", err
	}
	return h.tr.T("bot.registered", nil), nil
}

func (h *Handler) handleTalk(ctx context.Context, u Update, talkID int64) (string, error) {
	talk, err := h.talks.Get(ctx, talkID)
	if errors.Is(err, domain.ErrTalkNotFound) {
		return h.tr.T("bot.talk_not_found", nil), nil
	}
	if err != nil {
		return "", err
	}

	talkView := h.renderer.Talk(*talk)
	text, kb := talkView.Render(h.now())
	ref, err := h.deliver(ctx, u.ChatID, u.messageRef(), text, kb)
	if err != nil {
		return "", err
	}
	h.updater.Start(ref, talkView)
	return "", nil
}
