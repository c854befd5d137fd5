package view

import (
	"fmt"
	"html"
	"math"
	"strings"
	"time"

	"meetup/internal/domain"
	"meetup/internal/i18n"
	"meetup/internal/messenger"
)

const (
	// BarWidth is the number of progress bar segments
	BarWidth = 10

	dateTimeLayout = "02.01.2006 15:04"
	dateLayout     = "02.01.2006"
	activeMarker   = "▶ "
)

// Renderer builds program and talk views in the configured location
type Renderer struct {
	tr  *i18n.Translator
	loc *time.Location
}

// NewRenderer creates a renderer
func NewRenderer(tr *i18n.Translator, loc *time.Location) *Renderer {
	return &Renderer{tr: tr, loc: loc}
}

// NothingScheduled is shown when no event is active
func (r *Renderer) NothingScheduled() string {
	return r.tr.T("view.nothing_scheduled", nil)
}

// Program returns the live view of an event program
func (r *Renderer) Program(e domain.Event) *Program {
	return &Program{r: r, event: e}
}

// Talk returns the live view of a single talk
func (r *Renderer) Talk(t domain.Talk) *Talk {
	return &Talk{r: r, talk: t}
}

// Countdown formats time left as "1 дн 2 ч 5 мин", or "уже идёт" once d is not positive
func (r *Renderer) Countdown(d time.Duration) string {
	total := int64(d / time.Second)
	if total <= 0 {
		return r.tr.T("countdown.started", nil)
	}

	days := total / 86400
	hours := total % 86400 / 3600
	minutes := total % 3600 / 60

	var parts []string
	if days > 0 {
		parts = append(parts, r.tr.T("countdown.days", map[string]any{"N": days}))
	}
	if hours > 0 {
		parts = append(parts, r.tr.T("countdown.hours", map[string]any{"N": hours}))
	}
	if minutes > 0 {
		parts = append(parts, r.tr.T("countdown.minutes", map[string]any{"N": minutes}))
	}
	return strings.Join(parts, " ")
}

// ProgressBar renders ratio as "[█████     ] 50%"; ratio is clamped to [0, 1]
func ProgressBar(ratio float64, width int) string {
	ratio = math.Max(0, math.Min(ratio, 1))
	filled := int(math.Round(ratio * float64(width)))
	percent := int(math.Round(ratio * 100))
	return fmt.Sprintf("[%s%s] %d%%",
		strings.Repeat("█", filled),
		strings.Repeat(" ", width-filled),
		percent,
	)
}

// Program is the event program view
type Program struct {
	r     *Renderer
	event domain.Event
}

// Event returns the rendered event
func (p *Program) Event() domain.Event {
	return p.event
}

// Render builds the program text with one button per talk; talks running at now are marked
func (p *Program) Render(now time.Time) (string, messenger.Keyboard) {
	e := p.event
	text := p.r.tr.T("view.program", map[string]any{
		"Title":       html.EscapeString(e.Title),
		"Date":        e.Date.In(p.r.loc).Format(dateTimeLayout),
		"Countdown":   p.r.Countdown(e.Date.Sub(now)),
		"Description": html.EscapeString(e.Description),
	})

	kb := make(messenger.Keyboard, 0, len(e.Talks))
	for _, t := range e.Talks {
		label := fmt.Sprintf("%s — %s", t.Title, t.Speaker.DisplayName())
		if t.IsActive(now, p.r.loc, e) {
			label = activeMarker + label
		}
		kb = append(kb, messenger.Row(messenger.Button{
			Text: label,
			Data: fmt.Sprintf("talk_%d", t.ID),
		}))
	}
	return text, kb
}

// Finished reports whether the event has started
func (p *Program) Finished(now time.Time) bool {
	return !now.Before(p.event.Date)
}

// Talk is the single talk view with a progress bar
type Talk struct {
	r    *Renderer
	talk domain.Talk
}

// Render builds the talk card
func (v *Talk) Render(now time.Time) (string, messenger.Keyboard) {
	t := v.talk
	text := v.r.tr.T("view.talk", map[string]any{
		"Title":       html.EscapeString(t.Title),
		"Speaker":     html.EscapeString(t.Speaker.DisplayName()),
		"Date":        t.EventDate.In(v.r.loc).Format(dateLayout),
		"Start":       t.Start.String(),
		"End":         t.End.String(),
		"Description": html.EscapeString(t.Description),
		"Progress":    ProgressBar(t.Progress(now, v.r.loc), BarWidth),
	})

	kb := messenger.Keyboard{
		messenger.Row(messenger.Button{
			Text: v.r.tr.T("button.ask", nil),
			Data: fmt.Sprintf("ask_%d", t.ID),
		}),
		messenger.Row(messenger.Button{
			Text: v.r.tr.T("button.back_program", nil),
			Data: "back_program",
		}),
	}
	return text, kb
}

// Finished reports whether the talk window is over
func (v *Talk) Finished(now time.Time) bool {
	_, end := v.talk.Window(v.r.loc)
	return !now.Before(end)
}
