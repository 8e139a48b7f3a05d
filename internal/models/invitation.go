package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationTTL is how long an invitation link stays redeemable.
const InvitationTTL = 7 * 24 * time.Hour

// Invitation is a single-use token granting membership in a study plan.
// Used only ever transitions from false to true.
type Invitation struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	StudyPlanID    primitive.ObjectID  `bson:"study_plan_id" json:"study_plan_id"`
	StudyPlanTitle string              `bson:"study_plan_title" json:"study_plan_title"`
	InviterID      primitive.ObjectID  `bson:"inviter_id" json:"inviter_id"`
	InviterName    string              `bson:"inviter_name" json:"inviter_name"`
	InviterEmail   string              `bson:"inviter_email" json:"inviter_email"`
	InviteeEmail   string              `bson:"invitee_email,omitempty" json:"invitee_email,omitempty"` // absent for link-based invites
	Token          string              `bson:"token" json:"token"`
	ExpiresAt      time.Time           `bson:"expires_at" json:"expires_at"`
	Used           bool                `bson:"used" json:"used"`
	UsedAt         *time.Time          `bson:"used_at,omitempty" json:"used_at,omitempty"`
	UsedBy         *primitive.ObjectID `bson:"used_by,omitempty" json:"used_by,omitempty"`
	CreatedAt      time.Time           `bson:"created_at" json:"created_at"`
}
