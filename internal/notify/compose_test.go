package notify

import (
	"testing"
	"time"

	"meetup/internal/domain"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestComposer(t *testing.T) *Composer {
	return NewComposer(testutil.NewTestTranslator(t), time.UTC)
}

func TestComposer_Events(t *testing.T) {
	c := newTestComposer(t)
	e := *testutil.NewTestEvent(1)
	e.Title = "Go & <Friends>"

	created := c.NewEvent(e)
	assert.Contains(t, created.Text, "Новое мероприятие")
	assert.Contains(t, created.Text, "Go &amp; &lt;Friends&gt;")
	assert.Contains(t, created.Text, "01.06.2025 18:00")
	assert.Empty(t, created.Keyboard)

	updated := c.EventUpdated(e)
	assert.Contains(t, updated.Text, "Обновление мероприятия")
	assert.Contains(t, updated.Text, "01.06.2025 18:00")
}

func TestComposer_EventDateInLocation(t *testing.T) {
	loc := time.FixedZone("MSK", 3*60*60)
	c := NewComposer(testutil.NewTestTranslator(t), loc)

	msg := c.NewEvent(*testutil.NewTestEvent(1))

	assert.Contains(t, msg.Text, "01.06.2025 21:00")
}

func TestComposer_Talks(t *testing.T) {
	c := newTestComposer(t)
	talk := *testutil.NewTestTalk(3, 9, "Generics", 10, 11)
	talk.Speaker = domain.User{FirstName: "Rob", LastName: "Pike"}

	assigned := c.SpeakerAssigned(talk)
	assert.Contains(t, assigned.Text, "Generics")
	assert.Contains(t, assigned.Text, "10:00 - 11:00")
	assert.Contains(t, assigned.Text, "01.06.2025")

	added := c.ProgramChanged(talk, TalkAdded)
	assert.Contains(t, added.Text, "Новый доклад: «Generics»")
	assert.Contains(t, added.Text, "Rob Pike")

	changed := c.ProgramChanged(talk, TalkUpdated)
	assert.Contains(t, changed.Text, "Обновлён доклад: «Generics»")
}

func TestComposer_Questions(t *testing.T) {
	c := newTestComposer(t)
	answer := "Сейчас"
	q := domain.Question{
		ID:     7,
		Talk:   *testutil.NewTestTalk(3, 9, "Generics", 10, 11),
		Asker:  &domain.User{Username: "gopher"},
		Text:   "When is lunch?",
		Answer: &answer,
	}

	forSpeaker := c.QuestionForSpeaker(q)
	assert.Contains(t, forSpeaker.Text, "Вопрос #7 к докладу «Generics»")
	assert.Contains(t, forSpeaker.Text, "От: @gopher")
	assert.Contains(t, forSpeaker.Text, "When is lunch?")
	require.Len(t, forSpeaker.Keyboard, 1)
	require.Len(t, forSpeaker.Keyboard[0], 1)
	assert.Equal(t, "reply_7", forSpeaker.Keyboard[0][0].Data)
	assert.Equal(t, "Ответить на вопрос", forSpeaker.Keyboard[0][0].Text)

	q.Asker = nil
	assert.Contains(t, c.QuestionForSpeaker(q).Text, "От: аноним")

	forAsker := c.AnswerForAsker(q)
	assert.Contains(t, forAsker.Text, "«Generics»")
	assert.Contains(t, forAsker.Text, "Сейчас")
}
