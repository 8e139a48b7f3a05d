package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeFeedStore struct {
	created   []*models.AppNotification
	createErr error
	marked    []primitive.ObjectID
	deleted   []primitive.ObjectID
	cleanups  int
}

func (f *fakeFeedStore) CreateNotification(_ context.Context, notif *models.AppNotification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, notif)
	return nil
}

func (f *fakeFeedStore) GetUserNotifications(_ context.Context, userID primitive.ObjectID) ([]models.AppNotification, error) {
	var out []models.AppNotification
	for _, n := range f.created {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (f *fakeFeedStore) MarkAsRead(_ context.Context, id primitive.ObjectID) error {
	f.marked = append(f.marked, id)
	return nil
}

func (f *fakeFeedStore) DeleteNotification(_ context.Context, id primitive.ObjectID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeFeedStore) DeleteExpiredNotifications(_ context.Context) error {
	f.cleanups++
	return nil
}

type recordingMailer struct {
	err      error
	to       []string
	subjects []string
}

func (m *recordingMailer) Send(to, subject, _ string) error {
	if m.err != nil {
		return m.err
	}
	m.to = append(m.to, to)
	m.subjects = append(m.subjects, subject)
	return nil
}

func TestSendInvitationEmail(t *testing.T) {
	store := &fakeFeedStore{}
	mailer := &recordingMailer{}
	svc := NewNotificationService(store, mailer)
	inviter := primitive.NewObjectID()

	err := svc.SendInvitationEmail(context.Background(), inviter, InvitationEmailRequest{
		InviteeEmail:   "friend@example.com",
		StudyPlanTitle: "Biology Finals",
		InviterName:    "Ana",
		InvitationURL:  "https://studybuddy.app/invite/tok",
	})
	require.NoError(t, err)

	require.Len(t, mailer.to, 1)
	assert.Equal(t, "friend@example.com", mailer.to[0])
	assert.Contains(t, mailer.subjects[0], "Biology Finals")

	// The inviter gets an in-app confirmation record.
	require.Len(t, store.created, 1)
	assert.Equal(t, inviter, store.created[0].UserID)
	assert.Equal(t, models.NotificationTypeInvitation, store.created[0].Type)
}

func TestSendInvitationEmailRequiresRecipient(t *testing.T) {
	svc := NewNotificationService(&fakeFeedStore{}, &recordingMailer{})
	err := svc.SendInvitationEmail(context.Background(), primitive.NewObjectID(), InvitationEmailRequest{})
	assert.Error(t, err)
}

// A transport failure on the callable actions surfaces to the caller,
// unlike scanner deliveries.
func TestSendInvitationEmailSurfacesMailerFailure(t *testing.T) {
	store := &fakeFeedStore{}
	svc := NewNotificationService(store, &recordingMailer{err: fmt.Errorf("smtp down")})

	err := svc.SendInvitationEmail(context.Background(), primitive.NewObjectID(), InvitationEmailRequest{
		InviteeEmail: "friend@example.com",
	})
	assert.Error(t, err)
	assert.Empty(t, store.created)
}

// The confirmation record is best-effort: its failure does not fail an
// email that already went out.
func TestSendInvitationEmailRecordFailureNotSurfaced(t *testing.T) {
	store := &fakeFeedStore{createErr: fmt.Errorf("db down")}
	mailer := &recordingMailer{}
	svc := NewNotificationService(store, mailer)

	err := svc.SendInvitationEmail(context.Background(), primitive.NewObjectID(), InvitationEmailRequest{
		InviteeEmail: "friend@example.com",
	})
	assert.NoError(t, err)
	assert.Len(t, mailer.to, 1)
}

func TestSendMemberAddedEmail(t *testing.T) {
	store := &fakeFeedStore{}
	mailer := &recordingMailer{}
	svc := NewNotificationService(store, mailer)
	inviter := primitive.NewObjectID()

	err := svc.SendMemberAddedEmail(context.Background(), inviter, MemberAddedEmailRequest{
		MemberEmail:    "new@example.com",
		StudyPlanTitle: "Biology Finals",
		InviterName:    "Ana",
		StudyPlanURL:   "https://studybuddy.app/plans/1",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"new@example.com"}, mailer.to)
	require.Len(t, store.created, 1)
	assert.Equal(t, models.NotificationTypeUpdate, store.created[0].Type)

	assert.Error(t, svc.SendMemberAddedEmail(context.Background(), inviter, MemberAddedEmailRequest{}))
}

func TestFeedPassthroughs(t *testing.T) {
	store := &fakeFeedStore{}
	svc := NewNotificationService(store, &recordingMailer{})
	ctx := context.Background()
	user := primitive.NewObjectID()

	require.NoError(t, svc.CreateNotification(ctx, user, models.NotificationTypeReminder, "Title", "Message", nil))

	notifs, err := svc.GetUserNotifications(ctx, user)
	require.NoError(t, err)
	require.Len(t, notifs, 1)
	assert.False(t, notifs[0].Read)

	id := primitive.NewObjectID()
	require.NoError(t, svc.MarkNotificationAsRead(ctx, id))
	assert.Equal(t, []primitive.ObjectID{id}, store.marked)

	require.NoError(t, svc.DeleteNotification(ctx, id))
	assert.Equal(t, []primitive.ObjectID{id}, store.deleted)

	require.NoError(t, svc.CleanupExpiredNotifications(ctx))
	assert.Equal(t, 1, store.cleanups)
}
