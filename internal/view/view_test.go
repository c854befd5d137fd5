package view

import (
	"testing"
	"time"

	"meetup/internal/domain"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(t *testing.T) *Renderer {
	return NewRenderer(testutil.NewTestTranslator(t), time.UTC)
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 6, 1, hour, minute, 0, 0, time.UTC)
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		want  string
	}{
		{"empty", 0, "[          ] 0%"},
		{"half", 0.5, "[█████     ] 50%"},
		{"full", 1, "[██████████] 100%"},
		{"below zero is clamped", -0.3, "[          ] 0%"},
		{"above one is clamped", 1.7, "[██████████] 100%"},
		{"rounds to nearest segment", 0.26, "[███       ] 26%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ProgressBar(tt.ratio, BarWidth))
		})
	}
}

func TestTalk_ProgressInWindow(t *testing.T) {
	r := newTestRenderer(t)
	talk := testutil.NewTestTalk(3, 9, "Generics", 10, 11)
	v := r.Talk(*talk)

	tests := []struct {
		name string
		now  time.Time
		want string
	}{
		{"before start", at(9, 30), "[          ] 0%"},
		{"at start", at(10, 0), "[          ] 0%"},
		{"half way", at(10, 30), "[█████     ] 50%"},
		{"at end", at(11, 0), "[██████████] 100%"},
		{"after end", at(12, 0), "[██████████] 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := v.Render(tt.now)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestTalk_Render(t *testing.T) {
	r := newTestRenderer(t)
	talk := testutil.NewTestTalk(3, 9, "Generics <2>", 10, 11)
	talk.Speaker = domain.User{Username: "rob"}

	text, kb := r.Talk(*talk).Render(at(10, 30))

	assert.Contains(t, text, "Generics &lt;2&gt;")
	assert.Contains(t, text, "Докладчик: rob")
	assert.Contains(t, text, "01.06.2025  10:00–11:00")

	require.Len(t, kb, 2)
	assert.Equal(t, "ask_3", kb[0][0].Data)
	assert.Equal(t, "Задать вопрос", kb[0][0].Text)
	assert.Equal(t, "back_program", kb[1][0].Data)
}

func TestTalk_Finished(t *testing.T) {
	r := newTestRenderer(t)
	v := r.Talk(*testutil.NewTestTalk(3, 9, "Generics", 10, 11))

	assert.False(t, v.Finished(at(10, 59)))
	assert.True(t, v.Finished(at(11, 0)))

	night := r.Talk(*testutil.NewTestTalk(4, 9, "Late night", 23, 1))
	assert.False(t, night.Finished(at(23, 59)), "window wraps past midnight")
	assert.True(t, night.Finished(at(23, 0).Add(2*time.Hour)))
}

func TestProgram_Render(t *testing.T) {
	r := newTestRenderer(t)
	first := testutil.NewTestTalk(1, 9, "Opening", 18, 19)
	first.Speaker = domain.User{FirstName: "Ann", LastName: "Lee"}
	second := testutil.NewTestTalk(2, 10, "Closing", 19, 20)
	second.Speaker = domain.User{Username: "bob"}
	e := testutil.NewTestEvent(1, *first, *second)

	text, kb := r.Program(*e).Render(at(15, 55))

	assert.Contains(t, text, "Митап: Go meetup")
	assert.Contains(t, text, "Время проведения: 01.06.2025 18:00")
	assert.Contains(t, text, "До начала: 2 ч 5 мин")
	assert.Contains(t, text, "Программа:")

	require.Len(t, kb, 2)
	assert.Equal(t, "talk_1", kb[0][0].Data)
	assert.Equal(t, "Opening — Ann Lee", kb[0][0].Text)
	assert.Equal(t, "talk_2", kb[1][0].Data)
	assert.Equal(t, "Closing — bob", kb[1][0].Text)
}

func TestProgram_MarksActiveTalk(t *testing.T) {
	r := newTestRenderer(t)
	first := testutil.NewTestTalk(1, 9, "Opening", 18, 19)
	second := testutil.NewTestTalk(2, 10, "Closing", 19, 20)
	e := testutil.NewTestEvent(1, *first, *second)

	text, kb := r.Program(*e).Render(at(19, 45))

	assert.Contains(t, text, "уже идёт")
	assert.Equal(t, "Opening — speaker", kb[0][0].Text, "ended more than 30 minutes ago")
	assert.Equal(t, "▶ Closing — speaker", kb[1][0].Text)
}

func TestProgram_Finished(t *testing.T) {
	r := newTestRenderer(t)
	v := r.Program(*testutil.NewTestEvent(1))

	assert.False(t, v.Finished(at(17, 59)))
	assert.True(t, v.Finished(at(18, 0)))
	assert.True(t, v.Finished(at(21, 0)))
}

func TestRenderer_Countdown(t *testing.T) {
	r := newTestRenderer(t)

	tests := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"started", 0, "уже идёт"},
		{"in the past", -time.Hour, "уже идёт"},
		{"minutes only", 5 * time.Minute, "5 мин"},
		{"skips zero parts", 24*time.Hour + 3*time.Minute, "1 дн 3 мин"},
		{"all parts", 50*time.Hour + 30*time.Minute + 59*time.Second, "2 дн 2 ч 30 мин"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Countdown(tt.d))
		})
	}
}

func TestRenderer_NothingScheduled(t *testing.T) {
	assert.Equal(t, "Митапов не запланировано.", newTestRenderer(t).NothingScheduled())
}
