package domain

import "time"

// Question is an attendee question for a talk
type Question struct {
	ID        int64
	TalkID    int64
	Talk      Talk
	UserID    *int64 // nil for anonymous questions
	Asker     *User
	Text      string
	Answer    *string
	CreatedAt time.Time
}

// Answered reports whether the speaker already replied
func (q Question) Answered() bool {
	return q.Answer != nil && *q.Answer != ""
}

// AskerName returns "@username" or "аноним"
func (q Question) AskerName() string {
	if q.Asker == nil || q.Asker.Username == "" {
		return "аноним"
	}
	return "@" + q.Asker.Username
}
