package service

import (
	"context"
	"testing"
	"time"

	"meetup/internal/notify"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/require"
)

type fixture struct {
	users     *testutil.MockUserRepository
	events    *testutil.MockEventRepository
	talks     *testutil.MockTalkRepository
	questions *testutil.MockQuestionRepository
	sender    *testutil.RecordingSender

	registry *SubscriberRegistry
	composer *notify.Composer
	hooks    *Lifecycle
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		users:     new(testutil.MockUserRepository),
		events:    new(testutil.MockEventRepository),
		talks:     new(testutil.MockTalkRepository),
		questions: new(testutil.MockQuestionRepository),
		sender:    &testutil.RecordingSender{},
	}
	logger := testutil.NewTestLogger()
	f.registry = NewSubscriberRegistry(f.users)
	f.composer = notify.NewComposer(testutil.NewTestTranslator(t), time.UTC)
	f.hooks = NewLifecycle(f.registry, f.composer, f.dispatcher(), logger)
	return f
}

func (f *fixture) dispatcher() *notify.Dispatcher {
	return notify.NewDispatcher(f.sender, 0, testutil.NewTestLogger())
}

func (f *fixture) questionService() *QuestionService {
	return NewQuestionService(f.questions, f.talks, f.registry, f.composer, f.dispatcher(), testutil.NewTestLogger())
}

// settle waits for the notifications started by the hooks
func (f *fixture) settle(t *testing.T) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, f.hooks.Wait(ctx))
}

func (f *fixture) assertExpectations(t *testing.T) {
	f.users.AssertExpectations(t)
	f.events.AssertExpectations(t)
	f.talks.AssertExpectations(t)
	f.questions.AssertExpectations(t)
}
