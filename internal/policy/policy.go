// Package policy holds the pure reminder decision logic: given a study
// plan's current state and "now", which reminders apply and with what
// message text. No I/O happens here.
package policy

import (
	"fmt"
	"time"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
)

const day = 24 * time.Hour

// ReminderIntent is a reminder the policy engine decided should exist.
type ReminderIntent struct {
	Type         string // models.ReminderTypeDeadline etc.
	Message      string
	ScheduledFor time.Time
}

// DaysUntil returns the number of days from now until due, rounded up.
// A deadline 30 hours away counts as 2 days.
func DaysUntil(due, now time.Time) int {
	diff := due.Sub(now)
	d := int(diff / day)
	if diff%day > 0 {
		d++
	}
	return d
}

// DaysSince returns the number of whole days elapsed since t.
func DaysSince(t, now time.Time) int {
	return int(now.Sub(t) / day)
}

// Evaluate decides which upcoming reminders a study plan needs.
//
// A deadline reminder fires when the due date is 1 to 3 days out, with one
// of three fixed phrasings and no fallback for other day counts. A progress
// reminder fires when the plan is under 50% complete and at least a day
// old. Both are scheduled a flat 24 hours out regardless of which day
// bucket matched.
func Evaluate(plan *models.StudyPlan, now time.Time) []ReminderIntent {
	var intents []ReminderIntent

	switch DaysUntil(plan.DueDate, now) {
	case 1:
		intents = append(intents, ReminderIntent{
			Type:         models.ReminderTypeDeadline,
			Message:      fmt.Sprintf("Study plan %q is due tomorrow!", plan.Title),
			ScheduledFor: now.Add(day),
		})
	case 2:
		intents = append(intents, ReminderIntent{
			Type:         models.ReminderTypeDeadline,
			Message:      fmt.Sprintf("Study plan %q is due in 2 days", plan.Title),
			ScheduledFor: now.Add(day),
		})
	case 3:
		intents = append(intents, ReminderIntent{
			Type:         models.ReminderTypeDeadline,
			Message:      fmt.Sprintf("Study plan %q is due in 3 days", plan.Title),
			ScheduledFor: now.Add(day),
		})
	}

	if plan.Progress < 50 && DaysSince(plan.CreatedAt, now) >= 1 {
		intents = append(intents, ReminderIntent{
			Type:         models.ReminderTypeProgress,
			Message:      fmt.Sprintf("Study plan %q is %d%% complete. Keep up the good work!", plan.Title, plan.RoundedProgress()),
			ScheduledFor: now.Add(day),
		})
	}

	return intents
}

// DeadlinePhrase renders "time until deadline" for messages sent
// immediately by the scanners: "today", "tomorrow" or "in N days".
//
// This is a distinct policy from Evaluate's 1-to-3-day reminder gate; the
// two differ in both trigger window and wording and must not be merged.
func DeadlinePhrase(due, now time.Time) string {
	switch d := DaysUntil(due, now); d {
	case 0:
		return "today"
	case 1:
		return "tomorrow"
	default:
		return fmt.Sprintf("in %d days", d)
	}
}

// TaskReminderMessage formats the message for a reminder about one task.
func TaskReminderMessage(plan *models.StudyPlan, task models.Task) string {
	return fmt.Sprintf("Don't forget to complete %q in study plan %q", task.Title, plan.Title)
}
