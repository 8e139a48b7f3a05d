package services

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/email"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationStore is the repository surface the notification service
// needs.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.AppNotification) error
	GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.AppNotification, error)
	MarkAsRead(ctx context.Context, id primitive.ObjectID) error
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error
	DeleteExpiredNotifications(ctx context.Context) error
}

// InvitationEmailRequest carries the payload of the send-invitation-email
// action.
type InvitationEmailRequest struct {
	InviteeEmail   string `json:"invitee_email"`
	StudyPlanTitle string `json:"study_plan_title"`
	InviterName    string `json:"inviter_name"`
	InvitationURL  string `json:"invitation_url"`
}

// MemberAddedEmailRequest carries the payload of the send-member-added-email
// action.
type MemberAddedEmailRequest struct {
	MemberEmail    string `json:"member_email"`
	StudyPlanTitle string `json:"study_plan_title"`
	InviterName    string `json:"inviter_name"`
	StudyPlanURL   string `json:"study_plan_url"`
}

// NotificationService manages the in-app feed and the directly callable
// email actions.
type NotificationService struct {
	store  NotificationStore
	mailer notify.Mailer
}

// NewNotificationService creates a new instance of NotificationService.
func NewNotificationService(store NotificationStore, mailer notify.Mailer) *NotificationService {
	return &NotificationService{
		store:  store,
		mailer: mailer,
	}
}

// CreateNotification logs a new in-app notification for a user.
func (s *NotificationService) CreateNotification(ctx context.Context, userID primitive.ObjectID, notifType, title, message string, studyPlanID *primitive.ObjectID) error {
	notif := &models.AppNotification{
		UserID:      userID,
		Type:        notifType,
		Title:       title,
		Message:     message,
		Read:        false,
		StudyPlanID: studyPlanID,
	}
	return s.store.CreateNotification(ctx, notif)
}

// GetUserNotifications returns all notifications for a user.
func (s *NotificationService) GetUserNotifications(ctx context.Context, userID primitive.ObjectID) ([]models.AppNotification, error) {
	return s.store.GetUserNotifications(ctx, userID)
}

// MarkNotificationAsRead sets the "read" status of a notification to true.
func (s *NotificationService) MarkNotificationAsRead(ctx context.Context, notifID primitive.ObjectID) error {
	return s.store.MarkAsRead(ctx, notifID)
}

// DeleteNotification deletes a specific notification.
func (s *NotificationService) DeleteNotification(ctx context.Context, notifID primitive.ObjectID) error {
	return s.store.DeleteNotification(ctx, notifID)
}

// CleanupExpiredNotifications is called periodically by cron to delete old
// records.
func (s *NotificationService) CleanupExpiredNotifications(ctx context.Context) error {
	return s.store.DeleteExpiredNotifications(ctx)
}

// SendInvitationEmail sends the invitation mail and records an in-app
// confirmation for the inviter. Unlike scanner deliveries, a transport
// failure here is surfaced to the caller.
func (s *NotificationService) SendInvitationEmail(ctx context.Context, inviterID primitive.ObjectID, req InvitationEmailRequest) error {
	if req.InviteeEmail == "" {
		return fmt.Errorf("invitee email is required")
	}

	subject, html := email.InvitationMail(req.InviterName, req.StudyPlanTitle, req.InvitationURL)
	if err := s.mailer.Send(req.InviteeEmail, subject, html); err != nil {
		logrus.WithError(err).WithField("email", req.InviteeEmail).Error("Failed to send invitation email")
		return fmt.Errorf("failed to send invitation email: %v", err)
	}

	err := s.CreateNotification(ctx, inviterID, models.NotificationTypeInvitation,
		"Invitation Sent",
		fmt.Sprintf("Invitation sent to %s for %q", req.InviteeEmail, req.StudyPlanTitle),
		nil,
	)
	if err != nil {
		logrus.WithError(err).Warn("Failed to record invitation-sent notification")
	}

	return nil
}

// SendMemberAddedEmail sends the member-added mail and records an in-app
// confirmation for the inviter.
func (s *NotificationService) SendMemberAddedEmail(ctx context.Context, inviterID primitive.ObjectID, req MemberAddedEmailRequest) error {
	if req.MemberEmail == "" {
		return fmt.Errorf("member email is required")
	}

	subject, html := email.MemberAddedMail(req.InviterName, req.StudyPlanTitle, req.StudyPlanURL)
	if err := s.mailer.Send(req.MemberEmail, subject, html); err != nil {
		logrus.WithError(err).WithField("email", req.MemberEmail).Error("Failed to send member added email")
		return fmt.Errorf("failed to send member added email: %v", err)
	}

	err := s.CreateNotification(ctx, inviterID, models.NotificationTypeUpdate,
		"Member Added",
		fmt.Sprintf("%s has been added to %q", req.MemberEmail, req.StudyPlanTitle),
		nil,
	)
	if err != nil {
		logrus.WithError(err).Warn("Failed to record member-added notification")
	}

	return nil
}
