package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationStore is the repository surface the invitation service needs.
type InvitationStore interface {
	CreateInvitation(ctx context.Context, inv *models.Invitation) (*models.Invitation, error)
	GetInvitationByToken(ctx context.Context, token string) (*models.Invitation, error)
	MarkInvitationUsed(ctx context.Context, id, usedBy primitive.ObjectID, usedAt time.Time) error
}

// InvitationPlanStore is the slice of the study plan store redemption
// needs.
type InvitationPlanStore interface {
	GetStudyPlanByID(ctx context.Context, id primitive.ObjectID) (*models.StudyPlan, error)
	AddParticipant(ctx context.Context, id primitive.ObjectID, ref models.ParticipantRef) error
}

// InvitationService creates invitation tokens and redeems them into plan
// membership.
type InvitationService struct {
	invitations InvitationStore
	plans       InvitationPlanStore
	now         func() time.Time
}

// NewInvitationService creates a new instance of InvitationService.
func NewInvitationService(invitations InvitationStore, plans InvitationPlanStore) *InvitationService {
	return &InvitationService{
		invitations: invitations,
		plans:       plans,
		now:         time.Now,
	}
}

// CreateInvitation mints a single-use invitation for a plan. inviteeEmail
// may be empty for link-based invites.
func (s *InvitationService) CreateInvitation(ctx context.Context, plan *models.StudyPlan, inviter *models.User, inviteeEmail string) (*models.Invitation, error) {
	now := s.now()
	inv := &models.Invitation{
		StudyPlanID:    plan.ID,
		StudyPlanTitle: plan.Title,
		InviterID:      inviter.ID,
		InviterName:    inviter.DisplayName,
		InviterEmail:   inviter.Email,
		InviteeEmail:   inviteeEmail,
		Token:          uuid.NewString(),
		ExpiresAt:      now.Add(models.InvitationTTL),
		Used:           false,
		CreatedAt:      now,
	}

	created, err := s.invitations.CreateInvitation(ctx, inv)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %v", err)
	}
	return created, nil
}

// GetInvitation looks an invitation up by token.
func (s *InvitationService) GetInvitation(ctx context.Context, token string) (*models.Invitation, error) {
	return s.invitations.GetInvitationByToken(ctx, token)
}

// Redeem consumes an invitation and joins the redeemer to the target plan.
//
// Rejection checks run in a fixed order and the first match wins: already
// used, then expired, then already a member. On success the redeemer's uid
// is appended with set-union semantics and the invitation is marked used.
func (s *InvitationService) Redeem(ctx context.Context, token string, uid primitive.ObjectID) (*models.StudyPlan, error) {
	inv, err := s.invitations.GetInvitationByToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("invitation not found: %v", err)
	}

	now := s.now()
	if inv.Used {
		return nil, ErrInvitationUsed
	}
	if now.After(inv.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	plan, err := s.plans.GetStudyPlanByID(ctx, inv.StudyPlanID)
	if err != nil {
		return nil, fmt.Errorf("study plan not found: %v", err)
	}
	if plan.HasParticipantUID(uid.Hex()) {
		return nil, ErrAlreadyMember
	}

	if err := s.plans.AddParticipant(ctx, plan.ID, models.ParticipantUID(uid.Hex())); err != nil {
		return nil, fmt.Errorf("failed to join study plan: %v", err)
	}
	if err := s.invitations.MarkInvitationUsed(ctx, inv.ID, uid, now); err != nil {
		// Membership is already granted at this point; the invitation
		// stays consumable until the flag write succeeds on a later try.
		logrus.WithError(err).WithField("invitationID", inv.ID.Hex()).Error("Failed to mark invitation used")
		return nil, fmt.Errorf("failed to mark invitation used: %v", err)
	}

	logrus.WithFields(logrus.Fields{
		"invitationID": inv.ID.Hex(),
		"userID":       uid.Hex(),
	}).Info("Invitation redeemed")
	return plan, nil
}
