package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ReminderTypeDeadline = "deadline"
	ReminderTypeTask     = "task"
	ReminderTypeProgress = "progress"
)

// Reminder is a scheduled nudge about a study plan. StudyPlanTitle is a
// snapshot taken at creation time and is not re-synced if the plan is
// renamed later.
type Reminder struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	StudyPlanID    primitive.ObjectID `bson:"study_plan_id" json:"study_plan_id"`
	StudyPlanTitle string             `bson:"study_plan_title" json:"study_plan_title"`
	Type           string             `bson:"type" json:"type"` // "deadline", "task" or "progress"
	Message        string             `bson:"message" json:"message"`
	ScheduledFor   time.Time          `bson:"scheduled_for" json:"scheduled_for"`
	IsActive       bool               `bson:"is_active" json:"is_active"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}
