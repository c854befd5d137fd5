package domain

import "time"

// TalkGrace keeps a talk active after its scheduled end
const TalkGrace = 30 * time.Minute

// Talk represents a single talk of an event
type Talk struct {
	ID          int64
	EventID     int64
	EventTitle  string
	EventDate   time.Time
	SpeakerID   int64
	Speaker     User
	Title       string
	Description string
	Start       TimeOfDay
	End         TimeOfDay
}

// Window returns the talk start and end on the event's calendar date.
// An end at or before the start wraps past midnight.
func (t Talk) Window(loc *time.Location) (start, end time.Time) {
	start = t.Start.On(t.EventDate, loc)
	end = t.End.On(t.EventDate, loc)
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end
}

// Progress returns elapsed share of the talk window clamped to [0, 1]
func (t Talk) Progress(now time.Time, loc *time.Location) float64 {
	start, end := t.Window(loc)
	total := end.Sub(start)
	if total < time.Second {
		total = time.Second
	}
	ratio := float64(now.Sub(start)) / float64(total)
	switch {
	case ratio < 0:
		return 0
	case ratio > 1:
		return 1
	}
	return ratio
}

// IsActive reports whether now falls into [start, end+TalkGrace] and the event is active
func (t Talk) IsActive(now time.Time, loc *time.Location, event Event) bool {
	start, end := t.Window(loc)
	if now.Before(start) || now.After(end.Add(TalkGrace)) {
		return false
	}
	return event.IsActive(now, loc)
}
