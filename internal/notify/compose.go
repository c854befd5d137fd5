package notify

import (
	"fmt"
	"html"
	"time"

	"meetup/internal/domain"
	"meetup/internal/i18n"
	"meetup/internal/messenger"
)

const (
	dateTimeLayout = "02.01.2006 15:04"
	dateLayout     = "02.01.2006"
)

// Message is a composed notification ready to be sent
type Message struct {
	Text     string
	Keyboard messenger.Keyboard
}

// ChangeKind tells which program change is announced
type ChangeKind int

const (
	TalkAdded ChangeKind = iota
	TalkUpdated
)

// Composer builds notification texts in the configured location
type Composer struct {
	tr  *i18n.Translator
	loc *time.Location
}

// NewComposer creates a composer
func NewComposer(tr *i18n.Translator, loc *time.Location) *Composer {
	return &Composer{tr: tr, loc: loc}
}

// NewEvent announces a freshly created event
func (c *Composer) NewEvent(e domain.Event) Message {
	return Message{Text: c.tr.T("notify.new_event", c.eventData(e))}
}

// EventUpdated announces an edited event
func (c *Composer) EventUpdated(e domain.Event) Message {
	return Message{Text: c.tr.T("notify.event_updated", c.eventData(e))}
}

// SpeakerAssigned tells a speaker about a talk assigned to them
func (c *Composer) SpeakerAssigned(t domain.Talk) Message {
	return Message{Text: c.tr.T("notify.speaker_assigned", map[string]any{
		"Title":       html.EscapeString(t.Title),
		"Date":        t.EventDate.In(c.loc).Format(dateLayout),
		"Start":       t.Start.String(),
		"End":         t.End.String(),
		"Description": html.EscapeString(t.Description),
	})}
}

// ProgramChanged announces a new or changed talk to the audience
func (c *Composer) ProgramChanged(t domain.Talk, kind ChangeKind) Message {
	key := "notify.program_new_talk"
	if kind == TalkUpdated {
		key = "notify.program_talk_updated"
	}
	return Message{Text: c.tr.T(key, map[string]any{
		"Event":   html.EscapeString(t.EventTitle),
		"Title":   html.EscapeString(t.Title),
		"Speaker": html.EscapeString(t.Speaker.DisplayName()),
		"Start":   t.Start.String(),
		"End":     t.End.String(),
	})}
}

// QuestionForSpeaker forwards an attendee question with a reply button
func (c *Composer) QuestionForSpeaker(q domain.Question) Message {
	return Message{
		Text: c.tr.T("notify.question_for_speaker", map[string]any{
			"ID":    q.ID,
			"Talk":  html.EscapeString(q.Talk.Title),
			"Asker": html.EscapeString(q.AskerName()),
			"Text":  html.EscapeString(q.Text),
		}),
		Keyboard: messenger.Keyboard{
			messenger.Row(messenger.Button{
				Text: c.tr.T("button.reply_question", nil),
				Data: fmt.Sprintf("reply_%d", q.ID),
			}),
		},
	}
}

// AnswerForAsker delivers the speaker answer to the attendee
func (c *Composer) AnswerForAsker(q domain.Question) Message {
	answer := ""
	if q.Answer != nil {
		answer = *q.Answer
	}
	return Message{Text: c.tr.T("notify.answer_for_asker", map[string]any{
		"Talk":   html.EscapeString(q.Talk.Title),
		"Answer": html.EscapeString(answer),
	})}
}

func (c *Composer) eventData(e domain.Event) map[string]any {
	return map[string]any{
		"Title":       html.EscapeString(e.Title),
		"Date":        e.Date.In(c.loc).Format(dateTimeLayout),
		"Description": html.EscapeString(e.Description),
	}
}
