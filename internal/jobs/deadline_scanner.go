// Package jobs holds the daily batch scans over the study plan collection.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/policy"
	"github.com/sirupsen/logrus"
)

// PlanSource is the slice of the study plan repository the scanners need.
type PlanSource interface {
	GetPlansDueBetween(ctx context.Context, from, to time.Time) ([]models.StudyPlan, error)
	GetAllPlans(ctx context.Context) ([]models.StudyPlan, error)
}

// RecipientResolver expands a plan's participant list.
type RecipientResolver interface {
	Resolve(ctx context.Context, refs []models.ParticipantRef) []notify.Recipient
}

// IntentDispatcher delivers one intent to one recipient.
type IntentDispatcher interface {
	Dispatch(ctx context.Context, rcpt notify.Recipient, intent notify.Intent) notify.DispatchReport
}

// DeadlineScanner notifies every participant of plans due between 24 and
// 48 hours from scan start, both bounds inclusive.
type DeadlineScanner struct {
	plans      PlanSource
	resolver   RecipientResolver
	dispatcher IntentDispatcher
	now        func() time.Time
}

// NewDeadlineScanner creates a new instance of DeadlineScanner.
func NewDeadlineScanner(plans PlanSource, resolver RecipientResolver, dispatcher IntentDispatcher) *DeadlineScanner {
	return &DeadlineScanner{
		plans:      plans,
		resolver:   resolver,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

// Run executes one scan. A failure for one plan or one recipient is logged
// and does not abort the remaining units of work.
func (s *DeadlineScanner) Run(ctx context.Context) error {
	now := s.now()
	from := now.Add(24 * time.Hour)
	to := now.Add(48 * time.Hour)

	plans, err := s.plans.GetPlansDueBetween(ctx, from, to)
	if err != nil {
		return fmt.Errorf("failed to fetch plans with upcoming deadlines: %v", err)
	}

	for i := range plans {
		plan := plans[i]
		phrase := policy.DeadlinePhrase(plan.DueDate, now)

		intent := notify.Intent{
			Kind:      notify.KindDeadlineReminder,
			NotifType: models.NotificationTypeReminder,
			Title:     "Deadline Reminder",
			Message:   fmt.Sprintf("Study plan %q is due %s", plan.Title, phrase),
			Phrase:    phrase,
			Plan:      &plan,
		}

		for _, rcpt := range s.resolver.Resolve(ctx, plan.Participants) {
			report := s.dispatcher.Dispatch(ctx, rcpt, intent)
			if report.Failed() {
				logrus.WithFields(logrus.Fields{
					"plan_id": plan.ID.Hex(),
					"email":   rcpt.Email,
				}).Warn("Partial delivery of deadline reminder")
			}
		}
	}

	logrus.WithField("count", len(plans)).Info("Deadline scan completed")
	return nil
}
