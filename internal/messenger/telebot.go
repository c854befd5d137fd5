package messenger

import (
	"context"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v3"
)

// TelebotSender implements Sender and PhotoSender on top of telebot
type TelebotSender struct {
	bot *tele.Bot
}

// NewTelebotSender creates a sender bound to bot
func NewTelebotSender(bot *tele.Bot) *TelebotSender {
	return &TelebotSender{bot: bot}
}

// Send sends an HTML message
func (s *TelebotSender) Send(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return MessageRef{}, err
	}
	msg, err := s.bot.Send(tele.ChatID(chatID), text, sendOptions(kb))
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

// Edit replaces text and keyboard of a sent message.
// An edit that changes nothing is not an error.
func (s *TelebotSender) Edit(ctx context.Context, ref MessageRef, text string, kb Keyboard) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stored := &tele.StoredMessage{MessageID: strconv.Itoa(ref.MessageID), ChatID: ref.ChatID}
	_, err := s.bot.Edit(stored, text, sendOptions(kb))
	if err != nil && isNotModified(err) {
		return nil
	}
	return err
}

// SendPhoto sends a picture from disk with an HTML caption
func (s *TelebotSender) SendPhoto(ctx context.Context, chatID int64, path, caption string, kb Keyboard) (MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return MessageRef{}, err
	}
	photo := &tele.Photo{File: tele.FromDisk(path), Caption: caption}
	msg, err := s.bot.Send(tele.ChatID(chatID), photo, sendOptions(kb))
	if err != nil {
		return MessageRef{}, err
	}
	return MessageRef{ChatID: chatID, MessageID: msg.ID}, nil
}

func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "message is not modified")
}

func sendOptions(kb Keyboard) *tele.SendOptions {
	return &tele.SendOptions{
		ParseMode:             tele.ModeHTML,
		DisableWebPagePreview: true,
		ReplyMarkup:           toMarkup(kb),
	}
}

// toMarkup converts a Keyboard into raw inline buttons so callback data arrives untouched
func toMarkup(kb Keyboard) *tele.ReplyMarkup {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]tele.InlineButton, 0, len(kb))
	for _, row := range kb {
		buttons := make([]tele.InlineButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, tele.InlineButton{Text: b.Text, Data: b.Data})
		}
		rows = append(rows, buttons)
	}
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}
