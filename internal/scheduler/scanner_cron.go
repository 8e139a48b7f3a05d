package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/jobs"
	"github.com/studybuddy-app/StudyBuddy-Server/internal/services"
	"github.com/sirupsen/logrus"
)

// StartScannerCronJobs wires the daily scans onto fixed local times in the
// configured timezone. The two scanners run on independent triggers with
// no mutual exclusion; they touch disjoint concerns.
func StartScannerCronJobs(deadline *jobs.DeadlineScanner, stagnation *jobs.StagnationScanner, notificationService *services.NotificationService, timezone string) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		logrus.WithError(err).Warnf("Unknown timezone %q, falling back to local", timezone)
		loc = time.Local
	}

	c := cron.New(cron.WithLocation(loc))

	// Deadline reminders, daily at 9 AM
	c.AddFunc("0 9 * * *", func() {
		if err := deadline.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Deadline scan failed")
		}
	})

	// Incomplete plan updates, daily at 6 PM
	c.AddFunc("0 18 * * *", func() {
		if err := stagnation.Run(context.Background()); err != nil {
			logrus.WithError(err).Error("Incomplete plan scan failed")
		}
	})

	// Expired notification cleanup
	c.AddFunc("@daily", func() {
		if err := notificationService.CleanupExpiredNotifications(context.Background()); err != nil {
			logrus.WithError(err).Error("Notification cleanup failed")
		}
	})

	c.Start()
}
