package domain

import "time"

// EventGrace keeps an event active for a while after its last talk ends
const EventGrace = 15 * time.Minute

// Event represents a meetup with its ordered talks
type Event struct {
	ID          int64
	Title       string
	Date        time.Time
	Description string
	Talks       []Talk
}

// End returns the end of the latest talk window. ok is false for an event without talks.
func (e Event) End(loc *time.Location) (end time.Time, ok bool) {
	for _, t := range e.Talks {
		_, talkEnd := t.Window(loc)
		if !ok || talkEnd.After(end) {
			end, ok = talkEnd, true
		}
	}
	return end, ok
}

// IsActive reports whether now is before the last talk end plus EventGrace.
// An event without talks is never active.
func (e Event) IsActive(now time.Time, loc *time.Location) bool {
	end, ok := e.End(loc)
	if !ok {
		return false
	}
	return !now.After(end.Add(EventGrace))
}
