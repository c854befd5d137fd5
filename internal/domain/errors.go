package domain

import "errors"

// Domain errors.
var (
	ErrEventNotFound    = errors.New("event not found")
	ErrTalkNotFound     = errors.New("talk not found")
	ErrQuestionNotFound = errors.New("question not found")
	ErrProfileNotFound  = errors.New("profile not found")
	ErrNotSpeaker       = errors.New("profile is not a speaker")
	ErrNotTalkSpeaker   = errors.New("speaker does not own this talk")
	ErrEmptyText        = errors.New("text cannot be empty")
)
