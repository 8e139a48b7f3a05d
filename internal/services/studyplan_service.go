package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StudyPlanStore is the repository surface the service needs. The Mongo
// repository satisfies it; tests use an in-memory fake.
type StudyPlanStore interface {
	CreateStudyPlan(ctx context.Context, plan *models.StudyPlan) (*models.StudyPlan, error)
	GetStudyPlanByID(ctx context.Context, id primitive.ObjectID) (*models.StudyPlan, error)
	UpdateStudyPlan(ctx context.Context, id primitive.ObjectID, plan *models.StudyPlan) (*models.StudyPlan, error)
	DeleteStudyPlan(ctx context.Context, id primitive.ObjectID) error
	ReplaceTasks(ctx context.Context, id primitive.ObjectID, tasks []models.Task, progress float64, expectedUpdatedAt time.Time) error
	AddParticipant(ctx context.Context, id primitive.ObjectID, ref models.ParticipantRef) error
	GetStudyPlansForUser(ctx context.Context, uid primitive.ObjectID) ([]models.StudyPlan, error)
}

// StudyPlanService encapsulates the business logic for study plans, tasks
// and membership.
type StudyPlanService struct {
	store StudyPlanStore
}

// NewStudyPlanService creates a new instance of StudyPlanService.
func NewStudyPlanService(store StudyPlanStore) *StudyPlanService {
	return &StudyPlanService{store: store}
}

// CreateStudyPlan validates and stores a new plan owned by ownerID. The
// owner is always a participant.
func (s *StudyPlanService) CreateStudyPlan(ctx context.Context, plan *models.StudyPlan, ownerID primitive.ObjectID) (*models.StudyPlan, error) {
	if plan.Title == "" {
		logger.Log.Warn("Study plan title is empty during creation")
		return nil, fmt.Errorf("study plan title is required")
	}
	if !plan.DueDate.IsZero() && plan.DueDate.Before(time.Now()) {
		return nil, fmt.Errorf("due date cannot be in the past")
	}

	plan.OwnerID = ownerID
	if !plan.HasParticipantUID(ownerID.Hex()) {
		plan.Participants = append(plan.Participants, models.ParticipantUID(ownerID.Hex()))
	}
	plan.RecomputeProgress()

	created, err := s.store.CreateStudyPlan(ctx, plan)
	if err != nil {
		logger.Log.WithError(err).Error("Service failed to create study plan")
		return nil, fmt.Errorf("failed to create study plan: %v", err)
	}

	logger.Log.WithField("plan_id", created.ID.Hex()).Info("Study plan created in service layer")
	return created, nil
}

// GetStudyPlan retrieves a plan and checks the requester can see it.
func (s *StudyPlanService) GetStudyPlan(ctx context.Context, id string, requester primitive.ObjectID) (*models.StudyPlan, error) {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(plan, requester) {
		return nil, ErrForbidden
	}
	return plan, nil
}

// GetStudyPlansForUser lists plans the user owns or participates in.
func (s *StudyPlanService) GetStudyPlansForUser(ctx context.Context, uid primitive.ObjectID) ([]models.StudyPlan, error) {
	plans, err := s.store.GetStudyPlansForUser(ctx, uid)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch study plans: %v", err)
	}
	return plans, nil
}

// UpdateStudyPlan updates plan metadata; any participant may do this.
func (s *StudyPlanService) UpdateStudyPlan(ctx context.Context, id string, requester primitive.ObjectID, updated *models.StudyPlan) (*models.StudyPlan, error) {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(plan, requester) {
		return nil, ErrForbidden
	}
	if !updated.DueDate.IsZero() && updated.DueDate.Before(time.Now()) {
		return nil, fmt.Errorf("due date cannot be in the past")
	}

	plan.Title = updated.Title
	plan.Subject = updated.Subject
	plan.Description = updated.Description
	if !updated.DueDate.IsZero() {
		plan.DueDate = updated.DueDate
	}
	plan.IsGroup = updated.IsGroup

	saved, err := s.store.UpdateStudyPlan(ctx, plan.ID, plan)
	if err != nil {
		return nil, fmt.Errorf("failed to update study plan: %v", err)
	}
	return saved, nil
}

// DeleteStudyPlan removes a plan; only the owner may delete.
func (s *StudyPlanService) DeleteStudyPlan(ctx context.Context, id string, requester primitive.ObjectID) error {
	plan, err := s.loadPlan(ctx, id)
	if err != nil {
		return err
	}
	if plan.OwnerID != requester {
		return ErrOwnerOnly
	}

	if err := s.store.DeleteStudyPlan(ctx, plan.ID); err != nil {
		return fmt.Errorf("failed to delete study plan: %v", err)
	}
	return nil
}

// AddTask appends a task and rewrites the array with recomputed progress.
func (s *StudyPlanService) AddTask(ctx context.Context, planID string, requester primitive.ObjectID, task models.Task) (*models.StudyPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(plan, requester) {
		return nil, ErrForbidden
	}
	if task.Title == "" {
		return nil, fmt.Errorf("task title is required")
	}

	task.ID = uuid.NewString()
	task.Completed = false
	task.CompletedAt = nil
	task.CreatedAt = time.Now()
	plan.Tasks = append(plan.Tasks, task)

	return s.saveTasks(ctx, plan)
}

// ToggleTask flips one task's completion state. CompletedAt is set exactly
// when the task is completed and cleared when it is reopened.
func (s *StudyPlanService) ToggleTask(ctx context.Context, planID string, requester primitive.ObjectID, taskID string) (*models.StudyPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(plan, requester) {
		return nil, ErrForbidden
	}

	found := false
	for i := range plan.Tasks {
		if plan.Tasks[i].ID != taskID {
			continue
		}
		found = true
		plan.Tasks[i].Completed = !plan.Tasks[i].Completed
		if plan.Tasks[i].Completed {
			now := time.Now()
			plan.Tasks[i].CompletedAt = &now
		} else {
			plan.Tasks[i].CompletedAt = nil
		}
		break
	}
	if !found {
		return nil, ErrTaskNotFound
	}

	return s.saveTasks(ctx, plan)
}

// DeleteTask removes one task from the array.
func (s *StudyPlanService) DeleteTask(ctx context.Context, planID string, requester primitive.ObjectID, taskID string) (*models.StudyPlan, error) {
	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return nil, err
	}
	if !s.canAccess(plan, requester) {
		return nil, ErrForbidden
	}

	tasks := plan.Tasks[:0]
	found := false
	for _, t := range plan.Tasks {
		if t.ID == taskID {
			found = true
			continue
		}
		tasks = append(tasks, t)
	}
	if !found {
		return nil, ErrTaskNotFound
	}
	plan.Tasks = tasks

	return s.saveTasks(ctx, plan)
}

// AddMemberByEmail appends a pending-email participant ("Add Member
// direct"); the entry is rewritten to a uid only through invitation
// redemption, never automatically.
func (s *StudyPlanService) AddMemberByEmail(ctx context.Context, planID string, requester primitive.ObjectID, memberEmail string) error {
	if memberEmail == "" {
		return fmt.Errorf("member email is required")
	}

	plan, err := s.loadPlan(ctx, planID)
	if err != nil {
		return err
	}
	if !s.canAccess(plan, requester) {
		return ErrForbidden
	}

	if err := s.store.AddParticipant(ctx, plan.ID, models.ParticipantPendingEmail(memberEmail)); err != nil {
		return fmt.Errorf("failed to add member: %v", err)
	}
	return nil
}

func (s *StudyPlanService) saveTasks(ctx context.Context, plan *models.StudyPlan) (*models.StudyPlan, error) {
	expected := plan.UpdatedAt
	plan.RecomputeProgress()

	if err := s.store.ReplaceTasks(ctx, plan.ID, plan.Tasks, plan.Progress, expected); err != nil {
		logger.Log.WithError(err).WithField("plan_id", plan.ID.Hex()).Warn("Task rewrite failed")
		return nil, err
	}
	return plan, nil
}

func (s *StudyPlanService) loadPlan(ctx context.Context, id string) (*models.StudyPlan, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid study plan ID: %v", err)
	}

	plan, err := s.store.GetStudyPlanByID(ctx, objID)
	if err != nil {
		return nil, fmt.Errorf("study plan not found: %v", err)
	}
	return plan, nil
}

func (s *StudyPlanService) canAccess(plan *models.StudyPlan, uid primitive.ObjectID) bool {
	return plan.OwnerID == uid || plan.HasParticipantUID(uid.Hex())
}
