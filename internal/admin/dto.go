package admin

import (
	"time"

	"meetup/internal/domain"
)

type eventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Date        time.Time `json:"date" binding:"required"`
	Description string    `json:"description"`
}

func (r eventRequest) toDomain(id int64) *domain.Event {
	return &domain.Event{
		ID:          id,
		Title:       r.Title,
		Date:        r.Date,
		Description: r.Description,
	}
}

type talkRequest struct {
	EventID     int64            `json:"event_id" binding:"required"`
	SpeakerID   int64            `json:"speaker_id" binding:"required"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description"`
	StartTime   domain.TimeOfDay `json:"start_time"`
	EndTime     domain.TimeOfDay `json:"end_time"`
}

func (r talkRequest) toDomain(id int64) *domain.Talk {
	return &domain.Talk{
		ID:          id,
		EventID:     r.EventID,
		SpeakerID:   r.SpeakerID,
		Title:       r.Title,
		Description: r.Description,
		Start:       r.StartTime,
		End:         r.EndTime,
	}
}

type talkResponse struct {
	ID          int64            `json:"id"`
	EventID     int64            `json:"event_id"`
	SpeakerID   int64            `json:"speaker_id"`
	Speaker     string           `json:"speaker"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	StartTime   domain.TimeOfDay `json:"start_time"`
	EndTime     domain.TimeOfDay `json:"end_time"`
}

func newTalkResponse(t domain.Talk) talkResponse {
	return talkResponse{
		ID:          t.ID,
		EventID:     t.EventID,
		SpeakerID:   t.SpeakerID,
		Speaker:     t.Speaker.DisplayName(),
		Title:       t.Title,
		Description: t.Description,
		StartTime:   t.Start,
		EndTime:     t.End,
	}
}

type eventResponse struct {
	ID          int64          `json:"id"`
	Title       string         `json:"title"`
	Date        time.Time      `json:"date"`
	Description string         `json:"description"`
	Talks       []talkResponse `json:"talks"`
}

func newEventResponse(e domain.Event) eventResponse {
	talks := make([]talkResponse, 0, len(e.Talks))
	for _, t := range e.Talks {
		talks = append(talks, newTalkResponse(t))
	}
	return eventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Date:        e.Date,
		Description: e.Description,
		Talks:       talks,
	}
}

type questionResponse struct {
	ID        int64     `json:"id"`
	TalkID    int64     `json:"talk_id"`
	Asker     string    `json:"asker"`
	Text      string    `json:"text"`
	Answer    *string   `json:"answer"`
	CreatedAt time.Time `json:"created_at"`
}

func newQuestionResponse(q domain.Question) questionResponse {
	return questionResponse{
		ID:        q.ID,
		TalkID:    q.TalkID,
		Asker:     q.AskerName(),
		Text:      q.Text,
		Answer:    q.Answer,
		CreatedAt: q.CreatedAt,
	}
}

type profileResponse struct {
	TelegramID  int64  `json:"telegram_id"`
	Username    string `json:"username"`
	IsSpeaker   bool   `json:"is_speaker"`
	IsOrganizer bool   `json:"is_organizer"`
	Subscribed  bool   `json:"subscribed_to_notifications"`
}

func newProfileResponse(p domain.UserProfile) profileResponse {
	return profileResponse{
		TelegramID:  p.TelegramID,
		Username:    p.User.Username,
		IsSpeaker:   p.IsSpeaker,
		IsOrganizer: p.IsOrganizer,
		Subscribed:  p.Subscribed,
	}
}
