package domain

// TalkChanged reports whether a talk update is worth announcing.
// A missing old snapshot counts as changed.
func TalkChanged(old *Talk, updated Talk) bool {
	if old == nil {
		return true
	}
	return old.Title != updated.Title ||
		old.Description != updated.Description ||
		old.Start != updated.Start ||
		old.End != updated.End ||
		old.SpeakerID != updated.SpeakerID
}
