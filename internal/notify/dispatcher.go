package notify

import (
	"context"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/pkg/email"
	"github.com/sirupsen/logrus"
)

// Intent kinds select the email template used for an event.
const (
	KindDeadlineReminder = "deadline_reminder"
	KindIncompletePlan   = "incomplete_plan"
)

// Intent is one notification event to be delivered to a recipient.
type Intent struct {
	Kind      string // selects the email template
	NotifType string // in-app record type, e.g. models.NotificationTypeReminder
	Title     string
	Message   string // push body and in-app message
	Phrase    string // "time until deadline" phrase for deadline mails
	Plan      *models.StudyPlan
}

// PushMessage is the payload handed to the push channel.
type PushMessage struct {
	Title string
	Body  string
	Data  map[string]string
}

// Pusher sends one push message to one device token.
type Pusher interface {
	Push(ctx context.Context, token string, msg PushMessage) error
}

// Mailer sends one HTML email.
type Mailer interface {
	Send(to, subject, html string) error
}

// NotificationStore persists in-app feed records.
type NotificationStore interface {
	CreateNotification(ctx context.Context, notif *models.AppNotification) error
}

// ChannelResult records the outcome of one delivery channel.
type ChannelResult struct {
	Attempted bool
	Err       error
}

// DispatchReport aggregates the three independent channel outcomes for one
// (recipient, intent) pair. Partial delivery is an accepted, observable
// state; no channel rolls back another.
type DispatchReport struct {
	Push   ChannelResult
	Email  ChannelResult
	Record ChannelResult
}

// Failed reports whether any attempted channel errored.
func (r DispatchReport) Failed() bool {
	return r.Push.Err != nil || r.Email.Err != nil || r.Record.Err != nil
}

// Dispatcher drives delivery of one intent to one recipient across the
// three channels. Each channel is individually fault-isolated: a failure
// is logged, recorded in the report and never propagated.
type Dispatcher struct {
	pusher        Pusher
	mailer        Mailer
	notifications NotificationStore
}

func NewDispatcher(pusher Pusher, mailer Mailer, notifications NotificationStore) *Dispatcher {
	return &Dispatcher{
		pusher:        pusher,
		mailer:        mailer,
		notifications: notifications,
	}
}

// Dispatch delivers the intent on every channel the recipient is reachable
// on and allowed by their preferences. It never returns an error; callers
// looping over recipients inspect the report if they care.
func (d *Dispatcher) Dispatch(ctx context.Context, rcpt Recipient, intent Intent) DispatchReport {
	var report DispatchReport

	if !categoryEnabled(rcpt.Preferences, intent.Kind) {
		return report
	}

	if rcpt.FCMToken != "" && rcpt.Preferences.PushEnabled {
		report.Push.Attempted = true
		msg := PushMessage{
			Title: intent.Title,
			Body:  intent.Message,
			Data:  map[string]string{},
		}
		if intent.Plan != nil {
			msg.Data["studyPlanId"] = intent.Plan.ID.Hex()
		}
		if err := d.pusher.Push(ctx, rcpt.FCMToken, msg); err != nil {
			logrus.WithError(err).WithField("token", rcpt.FCMToken).Warn("Failed to send push notification")
			report.Push.Err = err
		}
	}

	if rcpt.Email != "" && rcpt.Preferences.EmailEnabled {
		report.Email.Attempted = true
		subject, html := d.renderMail(rcpt, intent)
		if err := d.mailer.Send(rcpt.Email, subject, html); err != nil {
			logrus.WithError(err).WithField("email", rcpt.Email).Warn("Failed to send notification email")
			report.Email.Err = err
		}
	}

	if !rcpt.UID.IsZero() {
		report.Record.Attempted = true
		notif := &models.AppNotification{
			UserID:  rcpt.UID,
			Title:   intent.Title,
			Message: intent.Message,
			Type:    intent.NotifType,
			Read:    false,
		}
		if intent.Plan != nil {
			planID := intent.Plan.ID
			notif.StudyPlanID = &planID
		}
		if err := d.notifications.CreateNotification(ctx, notif); err != nil {
			logrus.WithError(err).WithField("userID", rcpt.UID.Hex()).Warn("Failed to create notification record")
			report.Record.Err = err
		}
	}

	return report
}

// categoryEnabled maps an intent kind to the recipient's per-category
// toggle. Kinds without a toggle are always delivered.
func categoryEnabled(prefs models.NotificationPreferences, kind string) bool {
	switch kind {
	case KindDeadlineReminder:
		return prefs.DeadlineReminders
	case KindIncompletePlan:
		return prefs.ProgressUpdates
	default:
		return true
	}
}

func (d *Dispatcher) renderMail(rcpt Recipient, intent Intent) (subject, html string) {
	switch intent.Kind {
	case KindIncompletePlan:
		return email.IncompletePlanMail(rcpt.DisplayName, intent.Plan)
	default:
		return email.DeadlineReminderMail(rcpt.DisplayName, intent.Plan, intent.Phrase)
	}
}
