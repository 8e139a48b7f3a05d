package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakePlanSource struct {
	duePlans []models.StudyPlan
	allPlans []models.StudyPlan
	dueErr   error
	allErr   error
	from, to time.Time
}

func (f *fakePlanSource) GetPlansDueBetween(_ context.Context, from, to time.Time) ([]models.StudyPlan, error) {
	f.from, f.to = from, to
	return f.duePlans, f.dueErr
}

func (f *fakePlanSource) GetAllPlans(_ context.Context) ([]models.StudyPlan, error) {
	return f.allPlans, f.allErr
}

type fakeResolver struct {
	recipients []notify.Recipient
}

func (f *fakeResolver) Resolve(_ context.Context, refs []models.ParticipantRef) []notify.Recipient {
	if len(refs) == 0 {
		return nil
	}
	return f.recipients
}

type dispatched struct {
	rcpt   notify.Recipient
	intent notify.Intent
}

type fakeDispatcher struct {
	calls   []dispatched
	failFor string // email whose dispatch reports a push failure
}

func (f *fakeDispatcher) Dispatch(_ context.Context, rcpt notify.Recipient, intent notify.Intent) notify.DispatchReport {
	f.calls = append(f.calls, dispatched{rcpt: rcpt, intent: intent})
	var report notify.DispatchReport
	if rcpt.Email == f.failFor {
		report.Push = notify.ChannelResult{Attempted: true, Err: errors.New("push failed")}
	}
	return report
}

func twoRecipients() []notify.Recipient {
	return []notify.Recipient{
		{UID: primitive.NewObjectID(), Email: "a@example.com", Preferences: models.DefaultPreferences()},
		{UID: primitive.NewObjectID(), Email: "b@example.com", Preferences: models.DefaultPreferences()},
	}
}

func TestDeadlineScannerWindow(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	source := &fakePlanSource{}

	scanner := NewDeadlineScanner(source, &fakeResolver{}, &fakeDispatcher{})
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Run(context.Background()))
	assert.Equal(t, now.Add(24*time.Hour), source.from)
	assert.Equal(t, now.Add(48*time.Hour), source.to)
}

func TestDeadlineScannerNotifiesEveryParticipant(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := models.StudyPlan{
		ID:      primitive.NewObjectID(),
		Title:   "Biology Finals",
		DueDate: now.Add(30 * time.Hour),
		Participants: []models.ParticipantRef{
			models.ParticipantUID(primitive.NewObjectID().Hex()),
			models.ParticipantUID(primitive.NewObjectID().Hex()),
		},
		Progress: 40,
	}
	source := &fakePlanSource{duePlans: []models.StudyPlan{plan}}
	dispatcher := &fakeDispatcher{}

	scanner := NewDeadlineScanner(source, &fakeResolver{recipients: twoRecipients()}, dispatcher)
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Run(context.Background()))
	require.Len(t, dispatcher.calls, 2)
	for _, call := range dispatcher.calls {
		assert.Equal(t, notify.KindDeadlineReminder, call.intent.Kind)
		assert.Equal(t, models.NotificationTypeReminder, call.intent.NotifType)
		assert.Equal(t, "Deadline Reminder", call.intent.Title)
		assert.Equal(t, `Study plan "Biology Finals" is due in 2 days`, call.intent.Message)
		assert.Equal(t, "in 2 days", call.intent.Phrase)
		require.NotNil(t, call.intent.Plan)
		assert.Equal(t, plan.ID, call.intent.Plan.ID)
	}
}

// One recipient's partial delivery must not stop the rest of the batch.
func TestDeadlineScannerContinuesPastFailures(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := models.StudyPlan{
		ID:           primitive.NewObjectID(),
		Title:        "Chemistry",
		DueDate:      now.Add(24 * time.Hour),
		Participants: []models.ParticipantRef{models.ParticipantUID(primitive.NewObjectID().Hex())},
	}
	source := &fakePlanSource{duePlans: []models.StudyPlan{plan}}
	dispatcher := &fakeDispatcher{failFor: "a@example.com"}

	scanner := NewDeadlineScanner(source, &fakeResolver{recipients: twoRecipients()}, dispatcher)
	scanner.now = func() time.Time { return now }

	require.NoError(t, scanner.Run(context.Background()))
	assert.Len(t, dispatcher.calls, 2)
}

func TestDeadlineScannerPropagatesQueryError(t *testing.T) {
	source := &fakePlanSource{dueErr: errors.New("mongo down")}
	scanner := NewDeadlineScanner(source, &fakeResolver{}, &fakeDispatcher{})

	err := scanner.Run(context.Background())
	assert.Error(t, err)
}
