package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/policy"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ReminderStore is the repository surface the reminder service needs.
type ReminderStore interface {
	CreateReminder(ctx context.Context, reminder *models.Reminder) (*models.Reminder, error)
	GetRemindersByPlan(ctx context.Context, planID primitive.ObjectID) ([]models.Reminder, error)
	GetActiveReminders(ctx context.Context) ([]models.Reminder, error)
	DeactivateReminder(ctx context.Context, id primitive.ObjectID) error
}

// ReminderService creates reminder records from policy decisions and
// answers the reminder queries the UI needs.
type ReminderService struct {
	store ReminderStore
}

// NewReminderService creates a new instance of ReminderService.
func NewReminderService(store ReminderStore) *ReminderService {
	return &ReminderService{store: store}
}

// CreateAutomaticReminders runs the policy engine over a plan and persists
// every reminder it decides on. A failure to store one reminder is logged
// and does not block the others.
func (s *ReminderService) CreateAutomaticReminders(ctx context.Context, plan *models.StudyPlan, now time.Time) {
	for _, intent := range policy.Evaluate(plan, now) {
		reminder := &models.Reminder{
			StudyPlanID:    plan.ID,
			StudyPlanTitle: plan.Title,
			Type:           intent.Type,
			Message:        intent.Message,
			ScheduledFor:   intent.ScheduledFor,
		}
		if _, err := s.store.CreateReminder(ctx, reminder); err != nil {
			logrus.WithError(err).WithField("plan_id", plan.ID.Hex()).Warn("Failed to create automatic reminder")
		}
	}
}

// CreateTaskReminder schedules a reminder about one specific task.
func (s *ReminderService) CreateTaskReminder(ctx context.Context, plan *models.StudyPlan, task models.Task, scheduledFor time.Time) (*models.Reminder, error) {
	reminder := &models.Reminder{
		StudyPlanID:    plan.ID,
		StudyPlanTitle: plan.Title,
		Type:           models.ReminderTypeTask,
		Message:        policy.TaskReminderMessage(plan, task),
		ScheduledFor:   scheduledFor,
	}

	created, err := s.store.CreateReminder(ctx, reminder)
	if err != nil {
		return nil, fmt.Errorf("failed to create task reminder: %v", err)
	}
	return created, nil
}

// GetRemindersForPlan lists a plan's reminders ordered by scheduled time.
func (s *ReminderService) GetRemindersForPlan(ctx context.Context, planID string) ([]models.Reminder, error) {
	objID, err := primitive.ObjectIDFromHex(planID)
	if err != nil {
		return nil, fmt.Errorf("invalid study plan ID: %v", err)
	}
	return s.store.GetRemindersByPlan(ctx, objID)
}

// GetUpcomingReminders returns up to limit active reminders scheduled
// strictly after now, soonest first. Filtering and ordering happen here
// rather than in the query, mirroring how the feature has always behaved.
func (s *ReminderService) GetUpcomingReminders(ctx context.Context, now time.Time, limit int) ([]models.Reminder, error) {
	reminders, err := s.store.GetActiveReminders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reminders: %v", err)
	}

	upcoming := make([]models.Reminder, 0, len(reminders))
	for _, r := range reminders {
		if r.ScheduledFor.After(now) {
			upcoming = append(upcoming, r)
		}
	}

	sort.Slice(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledFor.Before(upcoming[j].ScheduledFor)
	})

	if limit > 0 && len(upcoming) > limit {
		upcoming = upcoming[:limit]
	}
	return upcoming, nil
}

// DismissReminder deactivates a reminder.
func (s *ReminderService) DismissReminder(ctx context.Context, id string) error {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid reminder ID: %v", err)
	}
	return s.store.DeactivateReminder(ctx, objID)
}
