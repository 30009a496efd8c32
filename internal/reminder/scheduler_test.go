package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dida/internal/db"
	"dida/internal/push"
)

type fakeStore struct {
	reminders []db.ReminderRecord
	tokens    []db.TokenRecord
	deleted   []string
}

func (f *fakeStore) GetReminders() ([]db.ReminderRecord, error) { return f.reminders, nil }
func (f *fakeStore) GetNotificationTokens() ([]db.TokenRecord, error) {
	return f.tokens, nil
}
func (f *fakeStore) DeleteNotificationToken(recordID string) error {
	f.deleted = append(f.deleted, recordID)
	return nil
}

type fakeNotifier struct {
	sent   []push.Message
	tokens [][]string
	result push.Result
}

func (f *fakeNotifier) SendMulticast(_ context.Context, tokens []string, msg push.Message) (push.Result, error) {
	f.sent = append(f.sent, msg)
	f.tokens = append(f.tokens, tokens)
	return f.result, nil
}

func at(hhmm string) time.Time {
	t, err := time.Parse("2006-01-02 15:04", "2025-10-22 "+hhmm)
	if err != nil {
		panic(err)
	}
	return t
}

func TestDue(t *testing.T) {
	daily := db.ReminderRecord{ID: "morning", Time: "07:30", Enabled: true}

	assert.True(t, Due(daily, at("07:30")))
	assert.False(t, Due(daily, at("07:31")))

	disabled := daily
	disabled.Enabled = false
	assert.False(t, Due(disabled, at("07:30")))

	oneShot := db.ReminderRecord{ID: "dentist", Time: "09:00", Date: "2025-10-22", Enabled: true}
	assert.True(t, Due(oneShot, at("09:00")))

	pastShot := oneShot
	pastShot.Date = "2025-10-21"
	assert.False(t, Due(pastShot, at("09:00")))
}

func TestRunOnceSendsOnlyDueReminders(t *testing.T) {
	store := &fakeStore{
		reminders: []db.ReminderRecord{
			{ID: "morning", Time: "07:30", Label: "Morning Glow", Enabled: true},
			{ID: "evening", Time: "20:30", Label: "Wind-down Wrap", Enabled: true},
		},
		tokens: []db.TokenRecord{{ID: "rec1", Token: "tok-a"}},
	}
	notifier := &fakeNotifier{result: push.Result{SuccessCount: 1}}
	s := &Scheduler{store: store, notifier: notifier, loc: time.UTC}

	s.RunOnce(at("07:30"))

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "Morning Glow", notifier.sent[0].Title)
	assert.Equal(t, "morning", notifier.sent[0].Data["reminderId"])
	assert.Equal(t, []string{"tok-a"}, notifier.tokens[0])
}

func TestSendPrunesFailedTokens(t *testing.T) {
	store := &fakeStore{
		tokens: []db.TokenRecord{
			{ID: "rec1", Token: "tok-a"},
			{ID: "rec2", Token: "tok-b"},
		},
	}
	notifier := &fakeNotifier{result: push.Result{
		SuccessCount: 1,
		FailureCount: 1,
		FailedTokens: []string{"tok-b"},
	}}
	s := &Scheduler{store: store, notifier: notifier, loc: time.UTC}

	err := s.Send(context.Background(), db.ReminderRecord{ID: "morning", Time: "07:30", Enabled: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"rec2"}, store.deleted)
}

func TestSendSkipsWithoutTokens(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	s := &Scheduler{store: store, notifier: notifier, loc: time.UTC}

	err := s.Send(context.Background(), db.ReminderRecord{ID: "morning", Enabled: true})
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}
