package domain

import "strings"

// User represents a person known to the meetup backend
type User struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

// DisplayName returns full name if present, otherwise username
func (u User) DisplayName() string {
	full := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if full != "" {
		return full
	}
	return u.Username
}

// UserProfile links a user to a Telegram chat and carries role flags
type UserProfile struct {
	ID          int64
	UserID      int64
	User        User
	TelegramID  int64 // 0 when no chat is known
	IsSpeaker   bool
	IsOrganizer bool
	Subscribed  bool
}

// HasChat reports whether the profile can receive messages
func (p *UserProfile) HasChat() bool {
	return p != nil && p.TelegramID != 0
}
