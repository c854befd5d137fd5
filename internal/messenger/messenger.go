package messenger

import "context"

// Button is an inline button carrying callback data
type Button struct {
	Text string
	Data string
}

// Keyboard is a grid of inline buttons, one slice per row
type Keyboard [][]Button

// Row builds a keyboard row
func Row(buttons ...Button) []Button {
	return buttons
}

// MessageRef identifies a sent message so it can be edited later
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Sender delivers and edits chat messages. Texts are HTML.
type Sender interface {
	Send(ctx context.Context, chatID int64, text string, kb Keyboard) (MessageRef, error)
	Edit(ctx context.Context, ref MessageRef, text string, kb Keyboard) error
}

// PhotoSender sends a picture with a caption
type PhotoSender interface {
	SendPhoto(ctx context.Context, chatID int64, path, caption string, kb Keyboard) (MessageRef, error)
}
