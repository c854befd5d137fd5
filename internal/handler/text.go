package handler

import (
	"context"
	"errors"
	"strings"

	"meetup/internal/domain"
	"meetup/internal/pending"
	"meetup/internal/service"

	"go.uber.org/zap"
)

// HandleText routes free text: a pending interaction first, then the speaker answer command.
// Anything else is ignored without a reply.
func (h *Handler) HandleText(ctx context.Context, u Update) error {
	if strings.HasPrefix(u.Text, "/") {
		return nil
	}

	if token, ok := h.pending.Take(u.Participant()); ok {
		switch token.Kind {
		case pending.KindQuestion:
			return h.handleQuestionText(ctx, u, token)
		case pending.KindAnswer:
			return h.handleAnswerText(ctx, u, token)
		}
	}

	questionID, answer, ok := service.ParseAnswerCommand(u.Text)
	if !ok {
		return nil
	}
	return h.handleAnswerCommand(ctx, u, questionID, answer)
}

func (h *Handler) handleQuestionText(ctx context.Context, u Update, token pending.Token) error {
	_, err := h.questions.Ask(ctx, u.Participant(), token.TargetID, u.Text)
	switch {
	case err == nil:
		return h.reply(ctx, u.ChatID, h.tr.T("bot.question_sent", nil))
	case errors.Is(err, domain.ErrEmptyText):
		h.pending.Set(u.Participant(), token)
		return h.reply(ctx, u.ChatID, h.tr.T("bot.empty_text", nil))
	case errors.Is(err, domain.ErrTalkNotFound):
		return h.reply(ctx, u.ChatID, h.tr.T("bot.talk_not_found", nil))
	default:
		return h.fail(ctx, u, "Failed to save question", err)
	}
}

func (h *Handler) handleAnswerText(ctx context.Context, u Update, token pending.Token) error {
	_, err := h.questions.Answer(ctx, u.Participant(), token.TargetID, u.Text)
	switch {
	case err == nil:
		return h.reply(ctx, u.ChatID, h.tr.T("bot.answer_saved_sent", nil))
	case errors.Is(err, domain.ErrEmptyText):
		h.pending.Set(u.Participant(), token)
		return h.reply(ctx, u.ChatID, h.tr.T("bot.empty_text", nil))
	case errors.Is(err, domain.ErrQuestionNotFound):
		return h.reply(ctx, u.ChatID, h.tr.T("bot.question_not_found", nil))
	case errors.Is(err, domain.ErrNotTalkSpeaker):
		return h.reply(ctx, u.ChatID, h.tr.T("bot.not_your_talk", nil))
	default:
		return h.fail(ctx, u, "Failed to save answer", err)
	}
}

func (h *Handler) handleAnswerCommand(ctx context.Context, u Update, questionID int64, answer string) error {
	_, err := h.questions.AnswerAsSpeaker(ctx, u.Participant(), questionID, answer)
	switch {
	case err == nil:
		return h.reply(ctx, u.ChatID, h.tr.T("bot.answer_saved", nil))
	case errors.Is(err, domain.ErrNotSpeaker):
		// Looks like a command but comes from a non-speaker: treat as chatter.
		return nil
	case errors.Is(err, domain.ErrQuestionNotFound):
		return h.reply(ctx, u.ChatID, h.tr.T("bot.question_id_not_found", map[string]any{"ID": questionID}))
	case errors.Is(err, domain.ErrNotTalkSpeaker):
		return h.reply(ctx, u.ChatID, h.tr.T("bot.not_your_talk", nil))
	default:
		return h.fail(ctx, u, "Failed to save answer", err)
	}
}

// fail logs err and tells the user something went wrong
func (h *Handler) fail(ctx context.Context, u Update, msg string, err error) error {
	h.logger.Error(msg, zap.Int64("user_id", u.Participant()), zap.Error(err))
	return h.reply(ctx, u.ChatID, h.tr.T("bot.error", nil))
}
