package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user account in the StudyBuddy system.
type User struct {
	ID             primitive.ObjectID      `bson:"_id,omitempty" json:"id"`
	DisplayName    string                  `bson:"display_name" json:"display_name"`
	Email          string                  `bson:"email" json:"email"`
	HashedPassword string                  `bson:"hashed_password" json:"-"`
	Major          string                  `bson:"major,omitempty" json:"major,omitempty"`
	FCMToken       string                  `bson:"fcm_token,omitempty" json:"fcm_token,omitempty"`
	Preferences    NotificationPreferences `bson:"preferences" json:"preferences"`
	CreatedAt      time.Time               `bson:"created_at" json:"created_at"`
	UpdatedAt      time.Time               `bson:"updated_at" json:"updated_at"`
}

// NotificationPreferences are per-user channel and category toggles,
// consulted before dispatch.
type NotificationPreferences struct {
	EmailEnabled      bool `bson:"email_enabled" json:"email_enabled"`
	PushEnabled       bool `bson:"push_enabled" json:"push_enabled"`
	DeadlineReminders bool `bson:"deadline_reminders" json:"deadline_reminders"`
	ProgressUpdates   bool `bson:"progress_updates" json:"progress_updates"`
	Invitations       bool `bson:"invitations" json:"invitations"`
	Achievements      bool `bson:"achievements" json:"achievements"`
}

// DefaultPreferences enables every channel, the state a fresh account gets.
func DefaultPreferences() NotificationPreferences {
	return NotificationPreferences{
		EmailEnabled:      true,
		PushEnabled:       true,
		DeadlineReminders: true,
		ProgressUpdates:   true,
		Invitations:       true,
		Achievements:      true,
	}
}

type PublicUser struct {
	ID          primitive.ObjectID `json:"id"`
	DisplayName string             `json:"display_name"`
	Email       string             `json:"email"`
}
