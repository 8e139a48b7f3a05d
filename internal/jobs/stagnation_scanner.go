package jobs

import (
	"context"
	"fmt"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/notify"
	"github.com/sirupsen/logrus"
)

// StagnationScanner nudges participants of every plan that has not reached
// 100% completion. It reads the whole collection each run.
type StagnationScanner struct {
	plans      PlanSource
	resolver   RecipientResolver
	dispatcher IntentDispatcher
}

// NewStagnationScanner creates a new instance of StagnationScanner.
func NewStagnationScanner(plans PlanSource, resolver RecipientResolver, dispatcher IntentDispatcher) *StagnationScanner {
	return &StagnationScanner{
		plans:      plans,
		resolver:   resolver,
		dispatcher: dispatcher,
	}
}

// Run executes one scan with the same per-unit failure isolation as the
// deadline scan.
func (s *StagnationScanner) Run(ctx context.Context) error {
	plans, err := s.plans.GetAllPlans(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch study plans: %v", err)
	}

	for i := range plans {
		plan := plans[i]
		if plan.Progress >= 100 {
			continue
		}

		intent := notify.Intent{
			Kind:      notify.KindIncompletePlan,
			NotifType: models.NotificationTypeReminder,
			Title:     "Study Plan Update",
			Message:   fmt.Sprintf("Study plan %q is %d%% complete", plan.Title, plan.RoundedProgress()),
			Plan:      &plan,
		}

		for _, rcpt := range s.resolver.Resolve(ctx, plan.Participants) {
			report := s.dispatcher.Dispatch(ctx, rcpt, intent)
			if report.Failed() {
				logrus.WithFields(logrus.Fields{
					"plan_id": plan.ID.Hex(),
					"email":   rcpt.Email,
				}).Warn("Partial delivery of incomplete plan update")
			}
		}
	}

	logrus.WithField("count", len(plans)).Info("Incomplete plan scan completed")
	return nil
}
