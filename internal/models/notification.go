package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	NotificationTypeReminder    = "reminder"
	NotificationTypeInvitation  = "invitation"
	NotificationTypeUpdate      = "update"
	NotificationTypeAchievement = "achievement"
)

// AppNotification is one entry in a user's in-app feed. It is write-only
// from the notification core's perspective; the UI reads it and flips Read.
type AppNotification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	Type        string              `bson:"type" json:"type"` // e.g. "reminder", "invitation"
	Read        bool                `bson:"read" json:"read"`
	StudyPlanID *primitive.ObjectID `bson:"study_plan_id,omitempty" json:"study_plan_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at" json:"created_at"`
	ExpiresAt   time.Time           `bson:"expires_at" json:"expires_at"` // For auto-deletion after 7 days
}
