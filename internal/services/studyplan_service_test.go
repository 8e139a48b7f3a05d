package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStudyPlanStore struct {
	plan         *models.StudyPlan
	replaceErr   error
	lastTasks    []models.Task
	lastProgress float64
	lastExpected time.Time
}

func (f *fakeStudyPlanStore) CreateStudyPlan(_ context.Context, plan *models.StudyPlan) (*models.StudyPlan, error) {
	plan.ID = primitive.NewObjectID()
	plan.CreatedAt = time.Now()
	plan.UpdatedAt = plan.CreatedAt
	f.plan = plan
	return plan, nil
}

func (f *fakeStudyPlanStore) GetStudyPlanByID(_ context.Context, id primitive.ObjectID) (*models.StudyPlan, error) {
	if f.plan == nil || f.plan.ID != id {
		return nil, fmt.Errorf("plan not found")
	}
	copied := *f.plan
	copied.Tasks = append([]models.Task(nil), f.plan.Tasks...)
	return &copied, nil
}

func (f *fakeStudyPlanStore) UpdateStudyPlan(_ context.Context, _ primitive.ObjectID, plan *models.StudyPlan) (*models.StudyPlan, error) {
	f.plan = plan
	return plan, nil
}

func (f *fakeStudyPlanStore) DeleteStudyPlan(_ context.Context, _ primitive.ObjectID) error {
	f.plan = nil
	return nil
}

func (f *fakeStudyPlanStore) ReplaceTasks(_ context.Context, _ primitive.ObjectID, tasks []models.Task, progress float64, expectedUpdatedAt time.Time) error {
	if f.replaceErr != nil {
		return f.replaceErr
	}
	f.lastTasks = tasks
	f.lastProgress = progress
	f.lastExpected = expectedUpdatedAt
	f.plan.Tasks = tasks
	f.plan.Progress = progress
	f.plan.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStudyPlanStore) AddParticipant(_ context.Context, _ primitive.ObjectID, ref models.ParticipantRef) error {
	f.plan.Participants = append(f.plan.Participants, ref)
	return nil
}

func (f *fakeStudyPlanStore) GetStudyPlansForUser(_ context.Context, _ primitive.ObjectID) ([]models.StudyPlan, error) {
	if f.plan == nil {
		return nil, nil
	}
	return []models.StudyPlan{*f.plan}, nil
}

func planFixture(t *testing.T) (*StudyPlanService, *fakeStudyPlanStore, *models.StudyPlan, primitive.ObjectID) {
	t.Helper()
	store := &fakeStudyPlanStore{}
	svc := NewStudyPlanService(store)
	owner := primitive.NewObjectID()

	plan, err := svc.CreateStudyPlan(context.Background(), &models.StudyPlan{
		Title:   "Biology Finals",
		Subject: "Biology",
		DueDate: time.Now().Add(240 * time.Hour),
	}, owner)
	require.NoError(t, err)
	return svc, store, plan, owner
}

func TestCreateStudyPlanOwnerIsParticipant(t *testing.T) {
	_, _, plan, owner := planFixture(t)

	assert.Equal(t, owner, plan.OwnerID)
	assert.True(t, plan.HasParticipantUID(owner.Hex()))
	assert.Zero(t, plan.Progress)
}

func TestCreateStudyPlanValidation(t *testing.T) {
	svc := NewStudyPlanService(&fakeStudyPlanStore{})
	owner := primitive.NewObjectID()

	_, err := svc.CreateStudyPlan(context.Background(), &models.StudyPlan{}, owner)
	assert.Error(t, err)

	_, err = svc.CreateStudyPlan(context.Background(), &models.StudyPlan{
		Title:   "Old",
		DueDate: time.Now().Add(-time.Hour),
	}, owner)
	assert.Error(t, err)
}

func TestAddTaskRecomputesProgress(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	ctx := context.Background()

	updated, err := svc.AddTask(ctx, plan.ID.Hex(), owner, models.Task{Title: "Read chapter 1"})
	require.NoError(t, err)
	require.Len(t, updated.Tasks, 1)
	assert.NotEmpty(t, updated.Tasks[0].ID)
	assert.False(t, updated.Tasks[0].Completed)
	assert.Zero(t, store.lastProgress)

	_, err = svc.AddTask(ctx, plan.ID.Hex(), owner, models.Task{Title: ""})
	assert.Error(t, err)
}

func TestToggleTaskSetsCompletedAt(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	ctx := context.Background()

	updated, err := svc.AddTask(ctx, plan.ID.Hex(), owner, models.Task{Title: "Read chapter 1"})
	require.NoError(t, err)
	taskID := updated.Tasks[0].ID

	updated, err = svc.ToggleTask(ctx, plan.ID.Hex(), owner, taskID)
	require.NoError(t, err)
	assert.True(t, updated.Tasks[0].Completed)
	require.NotNil(t, updated.Tasks[0].CompletedAt)
	assert.InDelta(t, 100, store.lastProgress, 1e-9)

	updated, err = svc.ToggleTask(ctx, plan.ID.Hex(), owner, taskID)
	require.NoError(t, err)
	assert.False(t, updated.Tasks[0].Completed)
	assert.Nil(t, updated.Tasks[0].CompletedAt)
	assert.Zero(t, store.lastProgress)
}

func TestToggleUnknownTask(t *testing.T) {
	svc, _, plan, owner := planFixture(t)
	_, err := svc.ToggleTask(context.Background(), plan.ID.Hex(), owner, "missing-task")
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestDeleteTaskRecomputesProgress(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	ctx := context.Background()

	updated, err := svc.AddTask(ctx, plan.ID.Hex(), owner, models.Task{Title: "One"})
	require.NoError(t, err)
	first := updated.Tasks[0].ID
	updated, err = svc.AddTask(ctx, plan.ID.Hex(), owner, models.Task{Title: "Two"})
	require.NoError(t, err)
	second := updated.Tasks[1].ID

	_, err = svc.ToggleTask(ctx, plan.ID.Hex(), owner, first)
	require.NoError(t, err)

	updated, err = svc.DeleteTask(ctx, plan.ID.Hex(), owner, second)
	require.NoError(t, err)
	require.Len(t, updated.Tasks, 1)
	assert.InDelta(t, 100, store.lastProgress, 1e-9)
}

// A concurrent rewrite between read and write surfaces as a conflict
// instead of silently dropping the other writer's tasks.
func TestTaskRewriteConflict(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	store.replaceErr = repository.ErrConflict

	_, err := svc.AddTask(context.Background(), plan.ID.Hex(), owner, models.Task{Title: "Read chapter 1"})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestTaskRewriteUsesLoadedVersion(t *testing.T) {
	svc, store, plan, owner := planFixture(t)

	loaded, err := store.GetStudyPlanByID(context.Background(), plan.ID)
	require.NoError(t, err)

	_, err = svc.AddTask(context.Background(), plan.ID.Hex(), owner, models.Task{Title: "Read chapter 1"})
	require.NoError(t, err)
	assert.Equal(t, loaded.UpdatedAt, store.lastExpected)
}

func TestNonParticipantIsForbidden(t *testing.T) {
	svc, _, plan, _ := planFixture(t)
	stranger := primitive.NewObjectID()

	_, err := svc.GetStudyPlan(context.Background(), plan.ID.Hex(), stranger)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.AddTask(context.Background(), plan.ID.Hex(), stranger, models.Task{Title: "Sneaky"})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestDeleteStudyPlanOwnerOnly(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	ctx := context.Background()

	other := primitive.NewObjectID()
	require.NoError(t, store.AddParticipant(ctx, plan.ID, models.ParticipantUID(other.Hex())))

	err := svc.DeleteStudyPlan(ctx, plan.ID.Hex(), other)
	assert.ErrorIs(t, err, ErrOwnerOnly)

	require.NoError(t, svc.DeleteStudyPlan(ctx, plan.ID.Hex(), owner))
	assert.Nil(t, store.plan)
}

func TestAddMemberByEmailAppendsPendingRef(t *testing.T) {
	svc, store, plan, owner := planFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.AddMemberByEmail(ctx, plan.ID.Hex(), owner, "friend@example.com"))

	last := store.plan.Participants[len(store.plan.Participants)-1]
	assert.True(t, last.IsPending())

	assert.Error(t, svc.AddMemberByEmail(ctx, plan.ID.Hex(), owner, ""))
}
