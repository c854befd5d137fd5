package handler

import (
	"context"
	"os"
	"time"

	"meetup/internal/i18n"
	"meetup/internal/liveview"
	"meetup/internal/messenger"
	"meetup/internal/pending"
	"meetup/internal/service"
	"meetup/internal/view"

	"go.uber.org/zap"
)

// Update is an inbound chat update stripped of transport details
type Update struct {
	ChatID int64
	Sender service.ChatUser
	// MessageID is the message carrying the pressed button; 0 for text messages
	MessageID int
	// Text is the message text or the callback data
	Text string
}

// Participant identifies who sent the update
func (u Update) Participant() int64 {
	return u.Sender.TelegramID
}

func (u Update) messageRef() *messenger.MessageRef {
	if u.MessageID == 0 {
		return nil
	}
	return &messenger.MessageRef{ChatID: u.ChatID, MessageID: u.MessageID}
}

// Deps groups the collaborators of Handler
type Deps struct {
	Sender     messenger.Sender
	Photos     messenger.PhotoSender // optional
	Profiles   *service.ProfileService
	Events     *service.EventService
	Talks      *service.TalkService
	Questions  *service.QuestionService
	Pending    *pending.Tracker
	Updater    *liveview.Updater
	Renderer   *view.Renderer
	Translator *i18n.Translator
	LogoPath   string
}

// Handler routes chat updates to registration, program navigation and question flows
type Handler struct {
	sender    messenger.Sender
	photos    messenger.PhotoSender
	profiles  *service.ProfileService
	events    *service.EventService
	talks     *service.TalkService
	questions *service.QuestionService
	pending   *pending.Tracker
	updater   *liveview.Updater
	renderer  *view.Renderer
	tr        *i18n.Translator
	logoPath  string
	now       func() time.Time
	logger    *zap.Logger
}

// NewHandler creates a new handler instance
func NewHandler(deps Deps, logger *zap.Logger) *Handler {
	return &Handler{
		sender:    deps.Sender,
		photos:    deps.Photos,
		profiles:  deps.Profiles,
		events:    deps.Events,
		talks:     deps.Talks,
		questions: deps.Questions,
		pending:   deps.Pending,
		updater:   deps.Updater,
		renderer:  deps.Renderer,
		tr:        deps.Translator,
		logoPath:  deps.LogoPath,
		now:       time.Now,
		logger:    logger,
	}
}

// HandleStart shows the program to registered users and the greeting to everyone else
func (h *Handler) HandleStart(ctx context.Context, u Update) error {
	h.logger.Info("User started bot",
		zap.Int64("user_id", u.Participant()),
		zap.String("username", u.Sender.Username),
	)

	registered, err := h.profiles.IsRegistered(ctx, u.Participant())
	if err != nil {
		return err
	}
	if registered {
		return h.showProgram(ctx, u.ChatID, nil)
	}

	caption := h.tr.T("bot.greeting", nil)
	kb := messenger.Keyboard{
		messenger.Row(messenger.Button{Text: h.tr.T("button.continue", nil), Data: dataRegister}),
	}

	if h.photos != nil && h.logoPath != "" {
		if _, err := os.Stat(h.logoPath); err == nil {
			_, err := h.photos.SendPhoto(ctx, u.ChatID, h.logoPath, caption, kb)
			return err
		}
	}
	_, err = h.sender.Send(ctx, u.ChatID, caption, kb)
	return err
}

// HandleStop cancels the chat's live view
func (h *Handler) HandleStop(ctx context.Context, u Update) error {
	h.updater.Cancel(u.ChatID)
	return h.reply(ctx, u.ChatID, h.tr.T("bot.live_stopped", nil))
}

// showProgram renders the active event program and keeps it live.
// via is edited in place when given, with a new message as fallback.
func (h *Handler) showProgram(ctx context.Context, chatID int64, via *messenger.MessageRef) error {
	now := h.now()
	event, err := h.events.ActiveEvent(ctx, now)
	if err != nil {
		return err
	}

	if event == nil {
		h.updater.Cancel(chatID)
		_, err := h.deliver(ctx, chatID, via, h.renderer.NothingScheduled(), nil)
		return err
	}

	program := h.renderer.Program(*event)
	text, kb := program.Render(now)
	ref, err := h.deliver(ctx, chatID, via, text, kb)
	if err != nil {
		return err
	}
	h.updater.Start(ref, program)
	return nil
}

// deliver edits via when possible and sends a new message otherwise
func (h *Handler) deliver(ctx context.Context, chatID int64, via *messenger.MessageRef, text string, kb messenger.Keyboard) (messenger.MessageRef, error) {
	if via != nil {
		err := h.sender.Edit(ctx, *via, text, kb)
		if err == nil {
			return *via, nil
		}
		h.logger.Warn("Failed to edit message, sending new",
			zap.Int64("chat_id", chatID),
			zap.Int("message_id", via.MessageID),
			zap.Error(err),
		)
	}
	return h.sender.Send(ctx, chatID, text, kb)
}

func (h *Handler) reply(ctx context.Context, chatID int64, text string) error {
	_, err := h.sender.Send(ctx, chatID, text, nil)
	return err
}
