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

func incompletePlan(title string, progress float64) models.StudyPlan {
	return models.StudyPlan{
		ID:           primitive.NewObjectID(),
		Title:        title,
		DueDate:      time.Now().Add(240 * time.Hour),
		Participants: []models.ParticipantRef{models.ParticipantUID(primitive.NewObjectID().Hex())},
		Progress:     progress,
	}
}

func TestStagnationScannerSkipsCompletedPlans(t *testing.T) {
	source := &fakePlanSource{allPlans: []models.StudyPlan{
		incompletePlan("Done", 100),
		incompletePlan("Almost", 99.5),
	}}
	dispatcher := &fakeDispatcher{}

	scanner := NewStagnationScanner(source, &fakeResolver{recipients: twoRecipients()[:1]}, dispatcher)
	require.NoError(t, scanner.Run(context.Background()))

	require.Len(t, dispatcher.calls, 1)
	assert.Equal(t, "Almost", dispatcher.calls[0].intent.Plan.Title)
}

func TestStagnationScannerIntentContent(t *testing.T) {
	plan := incompletePlan("Linear Algebra", 100.0/3)
	source := &fakePlanSource{allPlans: []models.StudyPlan{plan}}
	dispatcher := &fakeDispatcher{}

	scanner := NewStagnationScanner(source, &fakeResolver{recipients: twoRecipients()[:1]}, dispatcher)
	require.NoError(t, scanner.Run(context.Background()))

	require.Len(t, dispatcher.calls, 1)
	intent := dispatcher.calls[0].intent
	assert.Equal(t, notify.KindIncompletePlan, intent.Kind)
	assert.Equal(t, "Study Plan Update", intent.Title)
	assert.Equal(t, `Study plan "Linear Algebra" is 33% complete`, intent.Message)
}

func TestStagnationScannerContinuesPastFailures(t *testing.T) {
	source := &fakePlanSource{allPlans: []models.StudyPlan{
		incompletePlan("First", 10),
		incompletePlan("Second", 20),
	}}
	dispatcher := &fakeDispatcher{failFor: "a@example.com"}

	scanner := NewStagnationScanner(source, &fakeResolver{recipients: twoRecipients()}, dispatcher)
	require.NoError(t, scanner.Run(context.Background()))
	assert.Len(t, dispatcher.calls, 4)
}

func TestStagnationScannerPropagatesQueryError(t *testing.T) {
	source := &fakePlanSource{allErr: errors.New("mongo down")}
	scanner := NewStagnationScanner(source, &fakeResolver{}, &fakeDispatcher{})
	assert.Error(t, scanner.Run(context.Background()))
}
