package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"meetup/internal/domain"
	"meetup/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLifecycle_EventCreated(t *testing.T) {
	f := newFixture(t)
	f.sender.FailChats = map[int64]bool{20: true}
	f.users.On("ListSubscribedChatIDs", mock.Anything).Return([]int64{10, 20, 30}, nil)

	f.hooks.EventCreated(context.Background(), *testutil.NewTestEvent(1))
	f.settle(t)

	sent := f.sender.Messages()
	require.Len(t, sent, 3, "a failed recipient does not stop the fanout")
	for _, chatID := range []int64{10, 20, 30} {
		msgs := f.sender.SentTo(chatID)
		require.Len(t, msgs, 1)
		assert.Contains(t, msgs[0].Text, "Новое мероприятие")
	}
	f.assertExpectations(t)
}

func TestLifecycle_EventUpdatedAlwaysNotifies(t *testing.T) {
	f := newFixture(t)
	f.users.On("ListSubscribedChatIDs", mock.Anything).Return([]int64{10}, nil)

	e := *testutil.NewTestEvent(1)
	f.hooks.EventUpdated(context.Background(), e)
	f.hooks.EventUpdated(context.Background(), e)
	f.settle(t)

	msgs := f.sender.SentTo(10)
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0].Text, "Обновление мероприятия")
}

func TestLifecycle_SubscriberLookupFailure(t *testing.T) {
	f := newFixture(t)
	f.users.On("ListSubscribedChatIDs", mock.Anything).Return(nil, errors.New("db down"))

	f.hooks.EventCreated(context.Background(), *testutil.NewTestEvent(1))
	f.settle(t)

	assert.Empty(t, f.sender.Messages())
}

func TestLifecycle_TalkCreated(t *testing.T) {
	tests := []struct {
		name          string
		speaker       *domain.UserProfile
		speakerNotice bool
	}{
		{
			name:          "speaker with chat",
			speaker:       testutil.NewTestProfile(9, 900, true),
			speakerNotice: true,
		},
		{
			name:    "speaker without chat",
			speaker: testutil.NewTestProfile(9, 0, true),
		},
		{
			name: "speaker without profile",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.speaker != nil {
				f.users.On("GetProfileByUserID", mock.Anything, int64(9)).Return(tt.speaker, nil)
			} else {
				f.users.On("GetProfileByUserID", mock.Anything, int64(9)).Return(nil, nil)
			}
			f.users.On("ListSubscribedChatIDs", mock.Anything).Return([]int64{10, 900}, nil)

			f.hooks.TalkCreated(context.Background(), *testutil.NewTestTalk(3, 9, "Generics", 10, 11))
			f.settle(t)

			audience := f.sender.SentTo(10)
			require.Len(t, audience, 1)
			assert.Contains(t, audience[0].Text, "Новый доклад: «Generics»")

			toSpeaker := f.sender.SentTo(900)
			if tt.speakerNotice {
				require.Len(t, toSpeaker, 2)
				assert.Contains(t, toSpeaker[0].Text, "🎤 <b>Новый доклад</b>")
			} else {
				require.Len(t, toSpeaker, 1)
			}
			f.assertExpectations(t)
		})
	}
}

func TestLifecycle_TalkUpdated(t *testing.T) {
	base := *testutil.NewTestTalk(3, 9, "Generics", 10, 11)
	retitled := base
	retitled.Title = "Generics in practice"
	movedEvent := base
	movedEvent.EventTitle = "Another meetup"

	tests := []struct {
		name     string
		old      *domain.Talk
		updated  domain.Talk
		notified bool
	}{
		{"material change", &base, retitled, true},
		{"untracked field only", &base, movedEvent, false},
		{"identical", &base, base, false},
		{"no snapshot", nil, base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.users.On("ListSubscribedChatIDs", mock.Anything).Return([]int64{10}, nil).Maybe()

			f.hooks.TalkUpdated(context.Background(), tt.old, tt.updated)
			f.settle(t)

			msgs := f.sender.SentTo(10)
			if tt.notified {
				require.Len(t, msgs, 1)
				assert.Contains(t, msgs[0].Text, "Обновлён доклад")
			} else {
				assert.Empty(t, msgs)
				f.users.AssertNotCalled(t, "ListSubscribedChatIDs", mock.Anything)
			}
		})
	}
}

func TestLifecycle_IgnoresCallerCancellation(t *testing.T) {
	f := newFixture(t)
	f.users.On("ListSubscribedChatIDs", mock.Anything).Return([]int64{10, 20}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f.hooks.EventUpdated(ctx, *testutil.NewTestEvent(1))
	f.settle(t)

	assert.Len(t, f.sender.SentTo(10), 1)
	assert.Len(t, f.sender.SentTo(20), 1)
}

func TestLifecycle_WaitHonoursDeadline(t *testing.T) {
	f := newFixture(t)
	release := make(chan time.Time)
	f.users.On("ListSubscribedChatIDs", mock.Anything).WaitUntil(release).Return([]int64{10}, nil)

	f.hooks.EventCreated(context.Background(), *testutil.NewTestEvent(1))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, f.hooks.Wait(ctx), context.DeadlineExceeded)

	close(release)
	f.settle(t)
	assert.Len(t, f.sender.SentTo(10), 1)
}
