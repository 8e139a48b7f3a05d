package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ParticipantRef identifies one member of a study plan. Exactly one of the
// two fields is set: UID for a registered user, PendingEmail for someone
// added by address before they have an account.
type ParticipantRef struct {
	UID          string `bson:"uid,omitempty" json:"uid,omitempty"`
	PendingEmail string `bson:"pending_email,omitempty" json:"pending_email,omitempty"`
}

// ParticipantUID builds a reference to a registered user.
func ParticipantUID(uid string) ParticipantRef {
	return ParticipantRef{UID: uid}
}

// ParticipantPendingEmail builds a reference to a not-yet-registered member.
func ParticipantPendingEmail(email string) ParticipantRef {
	return ParticipantRef{PendingEmail: email}
}

// IsPending reports whether the reference is a raw email placeholder.
func (p ParticipantRef) IsPending() bool {
	return p.UID == "" && p.PendingEmail != ""
}

type StudyPlan struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Subject      string             `bson:"subject" json:"subject"`
	Description  string             `bson:"description" json:"description"`
	DueDate      time.Time          `bson:"due_date" json:"due_date"`
	OwnerID      primitive.ObjectID `bson:"owner_id" json:"owner_id"`
	IsGroup      bool               `bson:"is_group" json:"is_group"`
	Participants []ParticipantRef   `bson:"participants" json:"participants"`
	Progress     float64            `bson:"progress" json:"progress"`
	Tasks        []Task             `bson:"tasks" json:"tasks"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}

// Task is embedded in a StudyPlan; it has no lifecycle of its own and is
// always rewritten as part of the whole tasks array.
type Task struct {
	ID          string     `bson:"id" json:"id"`
	Title       string     `bson:"title" json:"title"`
	Description string     `bson:"description,omitempty" json:"description,omitempty"`
	Completed   bool       `bson:"completed" json:"completed"`
	CreatedAt   time.Time  `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
	AssignedTo  string     `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`
}

// RecomputeProgress rederives Progress from the tasks array. It must be
// called whenever Tasks is mutated so the stored value never goes stale
// relative to the array it was derived from.
func (p *StudyPlan) RecomputeProgress() {
	if len(p.Tasks) == 0 {
		p.Progress = 0
		return
	}
	completed := 0
	for _, t := range p.Tasks {
		if t.Completed {
			completed++
		}
	}
	p.Progress = 100 * float64(completed) / float64(len(p.Tasks))
}

// RoundedProgress returns Progress rounded to the nearest whole percent,
// the form every outbound message embeds.
func (p *StudyPlan) RoundedProgress() int {
	return int(math.Round(p.Progress))
}

// HasParticipantUID reports whether the given user is already a member.
func (p *StudyPlan) HasParticipantUID(uid string) bool {
	for _, ref := range p.Participants {
		if ref.UID == uid {
			return true
		}
	}
	return false
}
