package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePusher struct {
	err   error
	sent  []PushMessage
	token string
}

func (f *fakePusher) Push(_ context.Context, token string, msg PushMessage) error {
	f.token = token
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

type fakeMailer struct {
	err  error
	to   []string
	html []string
}

func (f *fakeMailer) Send(to, subject, html string) error {
	if f.err != nil {
		return f.err
	}
	f.to = append(f.to, to)
	f.html = append(f.html, html)
	return nil
}

type fakeNotifStore struct {
	err     error
	created []*models.AppNotification
}

func (f *fakeNotifStore) CreateNotification(_ context.Context, notif *models.AppNotification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, notif)
	return nil
}

func testPlan() *models.StudyPlan {
	return &models.StudyPlan{
		ID:       primitive.NewObjectID(),
		Title:    "Biology Finals",
		Subject:  "Biology",
		DueDate:  time.Now().Add(30 * time.Hour),
		Progress: 40,
	}
}

func testRecipient() Recipient {
	return Recipient{
		UID:         primitive.NewObjectID(),
		Email:       "sam@example.com",
		DisplayName: "Sam",
		FCMToken:    "tok-9",
		Preferences: models.DefaultPreferences(),
	}
}

func testIntent(plan *models.StudyPlan) Intent {
	return Intent{
		Kind:      KindDeadlineReminder,
		NotifType: models.NotificationTypeReminder,
		Title:     "Deadline Reminder",
		Message:   `Study plan "Biology Finals" is due in 2 days`,
		Phrase:    "in 2 days",
		Plan:      plan,
	}
}

func TestDispatchAllChannels(t *testing.T) {
	pusher := &fakePusher{}
	mailer := &fakeMailer{}
	store := &fakeNotifStore{}
	d := NewDispatcher(pusher, mailer, store)

	rcpt := testRecipient()
	plan := testPlan()
	report := d.Dispatch(context.Background(), rcpt, testIntent(plan))

	assert.False(t, report.Failed())
	assert.True(t, report.Push.Attempted)
	assert.True(t, report.Email.Attempted)
	assert.True(t, report.Record.Attempted)

	require.Len(t, pusher.sent, 1)
	assert.Equal(t, plan.ID.Hex(), pusher.sent[0].Data["studyPlanId"])

	require.Len(t, store.created, 1)
	assert.Equal(t, rcpt.UID, store.created[0].UserID)
	assert.Equal(t, models.NotificationTypeReminder, store.created[0].Type)
	assert.False(t, store.created[0].Read)
	require.NotNil(t, store.created[0].StudyPlanID)
	assert.Equal(t, plan.ID, *store.created[0].StudyPlanID)
}

// A push failure must not block the email or the in-app record.
func TestDispatchIsolatesPushFailure(t *testing.T) {
	pusher := &fakePusher{err: errors.New("token rejected")}
	mailer := &fakeMailer{}
	store := &fakeNotifStore{}
	d := NewDispatcher(pusher, mailer, store)

	report := d.Dispatch(context.Background(), testRecipient(), testIntent(testPlan()))

	assert.True(t, report.Failed())
	assert.Error(t, report.Push.Err)
	assert.NoError(t, report.Email.Err)
	assert.NoError(t, report.Record.Err)
	assert.Len(t, mailer.to, 1)
	assert.Len(t, store.created, 1)
}

// Email and record failures are likewise independent of each other.
func TestDispatchPartialFailureIsObservable(t *testing.T) {
	pusher := &fakePusher{}
	mailer := &fakeMailer{err: errors.New("smtp down")}
	store := &fakeNotifStore{err: errors.New("db down")}
	d := NewDispatcher(pusher, mailer, store)

	report := d.Dispatch(context.Background(), testRecipient(), testIntent(testPlan()))

	assert.NoError(t, report.Push.Err)
	assert.Error(t, report.Email.Err)
	assert.Error(t, report.Record.Err)
	assert.Len(t, pusher.sent, 1)
}

func TestDispatchSkipsPushWithoutToken(t *testing.T) {
	pusher := &fakePusher{}
	d := NewDispatcher(pusher, &fakeMailer{}, &fakeNotifStore{})

	rcpt := testRecipient()
	rcpt.FCMToken = ""
	report := d.Dispatch(context.Background(), rcpt, testIntent(testPlan()))

	assert.False(t, report.Push.Attempted)
	assert.True(t, report.Email.Attempted)
	assert.True(t, report.Record.Attempted)
	assert.Empty(t, pusher.sent)
}

func TestDispatchHonorsPreferences(t *testing.T) {
	pusher := &fakePusher{}
	mailer := &fakeMailer{}
	d := NewDispatcher(pusher, mailer, &fakeNotifStore{})

	rcpt := testRecipient()
	rcpt.Preferences.PushEnabled = false
	rcpt.Preferences.EmailEnabled = false
	report := d.Dispatch(context.Background(), rcpt, testIntent(testPlan()))

	assert.False(t, report.Push.Attempted)
	assert.False(t, report.Email.Attempted)
	assert.True(t, report.Record.Attempted)
	assert.Empty(t, pusher.sent)
	assert.Empty(t, mailer.to)
}

// Opting out of a category silences every channel for that kind, not
// just push and email.
func TestDispatchHonorsCategoryToggle(t *testing.T) {
	pusher := &fakePusher{}
	mailer := &fakeMailer{}
	store := &fakeNotifStore{}
	d := NewDispatcher(pusher, mailer, store)

	rcpt := testRecipient()
	rcpt.Preferences.DeadlineReminders = false
	report := d.Dispatch(context.Background(), rcpt, testIntent(testPlan()))

	assert.False(t, report.Push.Attempted)
	assert.False(t, report.Email.Attempted)
	assert.False(t, report.Record.Attempted)
	assert.Empty(t, pusher.sent)
	assert.Empty(t, mailer.to)
	assert.Empty(t, store.created)

	rcpt.Preferences.DeadlineReminders = true
	rcpt.Preferences.ProgressUpdates = false
	report = d.Dispatch(context.Background(), rcpt, Intent{
		Kind:      KindIncompletePlan,
		NotifType: models.NotificationTypeReminder,
		Title:     "Study Plan Update",
		Message:   "ignored",
		Plan:      testPlan(),
	})
	assert.False(t, report.Email.Attempted)
	assert.False(t, report.Record.Attempted)
}

// A pending-email recipient has no uid, so only the email channel runs.
func TestDispatchEmailOnlyRecipient(t *testing.T) {
	mailer := &fakeMailer{}
	store := &fakeNotifStore{}
	d := NewDispatcher(&fakePusher{}, mailer, store)

	rcpt := Recipient{Email: "pending@example.com", Preferences: models.DefaultPreferences()}
	report := d.Dispatch(context.Background(), rcpt, testIntent(testPlan()))

	assert.False(t, report.Push.Attempted)
	assert.True(t, report.Email.Attempted)
	assert.False(t, report.Record.Attempted)
	assert.Empty(t, store.created)
	assert.Equal(t, []string{"pending@example.com"}, mailer.to)
}

func TestDispatchRendersIncompletePlanTemplate(t *testing.T) {
	mailer := &fakeMailer{}
	d := NewDispatcher(&fakePusher{}, mailer, &fakeNotifStore{})

	plan := testPlan()
	intent := Intent{
		Kind:      KindIncompletePlan,
		NotifType: models.NotificationTypeReminder,
		Title:     "Study Plan Update",
		Message:   `Study plan "Biology Finals" is 40% complete`,
		Plan:      plan,
	}
	d.Dispatch(context.Background(), testRecipient(), intent)

	require.Len(t, mailer.html, 1)
	assert.Contains(t, mailer.html[0], "Study Plan Update")
	assert.Contains(t, mailer.html[0], "40%")
}
