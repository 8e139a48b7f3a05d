// Package notify expands participant lists into deliverable recipients and
// fans each notification out across push, email and the in-app feed.
package notify

import (
	"context"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Recipient is one concrete deliverable address set for a participant.
// UID is zero for pending-email participants, which makes them reachable
// by email only.
type Recipient struct {
	UID         primitive.ObjectID
	Email       string
	DisplayName string
	FCMToken    string
	Preferences models.NotificationPreferences
}

// UserGetter is the slice of the user repository the resolver needs.
type UserGetter interface {
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// Resolver expands participant references into recipients.
type Resolver struct {
	users UserGetter
}

func NewResolver(users UserGetter) *Resolver {
	return &Resolver{users: users}
}

// Resolve looks up each participant reference and returns the recipients
// that could be resolved. Malformed identifiers and missing user records
// are logged and skipped, so the result may be shorter than the input.
func (r *Resolver) Resolve(ctx context.Context, refs []models.ParticipantRef) []Recipient {
	var recipients []Recipient

	for _, ref := range refs {
		if ref.IsPending() {
			// No user record yet; reachable by email only.
			recipients = append(recipients, Recipient{
				Email:       ref.PendingEmail,
				Preferences: models.DefaultPreferences(),
			})
			continue
		}

		uid, err := primitive.ObjectIDFromHex(ref.UID)
		if err != nil {
			logrus.WithField("participant", ref.UID).Warn("Skipping malformed participant ID")
			continue
		}

		user, err := r.users.GetUserByID(ctx, uid)
		if err != nil {
			logrus.WithError(err).WithField("participant", ref.UID).Warn("Skipping participant without a user record")
			continue
		}

		recipients = append(recipients, Recipient{
			UID:         user.ID,
			Email:       user.Email,
			DisplayName: user.DisplayName,
			FCMToken:    user.FCMToken,
			Preferences: user.Preferences,
		})
	}

	return recipients
}
