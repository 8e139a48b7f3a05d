package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ErrInvitationConsumed is returned when a mark-used write matched no
// document because the invitation was already consumed.
var ErrInvitationConsumed = errors.New("invitation already consumed")

type InvitationRepository struct {
	collection *mongo.Collection
}

func NewInvitationRepository(db *mongo.Database) *InvitationRepository {
	return &InvitationRepository{
		collection: db.Collection("invitations"),
	}
}

// CreateInvitation inserts a new invitation.
func (r *InvitationRepository) CreateInvitation(ctx context.Context, inv *models.Invitation) (*models.Invitation, error) {
	result, err := r.collection.InsertOne(ctx, inv)
	if err != nil {
		logrus.WithError(err).Error("Failed to insert invitation")
		return nil, fmt.Errorf("failed to create invitation: %v", err)
	}

	if insertedID, ok := result.InsertedID.(primitive.ObjectID); ok {
		inv.ID = insertedID
	}

	logrus.WithField("invitationID", inv.ID.Hex()).Info("Invitation created")
	return inv, nil
}

// GetInvitationByToken looks an invitation up by its redemption token.
func (r *InvitationRepository) GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error) {
	var inv models.Invitation
	err := r.collection.FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err != nil {
		logrus.WithError(err).Warn("Failed to find invitation by token")
		return nil, fmt.Errorf("failed to find invitation: %v", err)
	}
	return &inv, nil
}

// MarkInvitationUsed flips used from false to true. The filter pins
// used=false so the transition stays monotonic even under a redemption
// race; the loser gets ErrInvitationConsumed.
func (r *InvitationRepository) MarkInvitationUsed(ctx context.Context, id, usedBy primitive.ObjectID, usedAt time.Time) error {
	filter := bson.M{"_id": id, "used": false}
	update := bson.M{"$set": bson.M{
		"used":    true,
		"used_at": usedAt,
		"used_by": usedBy,
	}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("invitationID", id.Hex()).Error("Failed to mark invitation used")
		return fmt.Errorf("failed to mark invitation used: %v", err)
	}
	if result.MatchedCount == 0 {
		return ErrInvitationConsumed
	}
	return nil
}
