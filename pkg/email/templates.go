package email

import (
	"fmt"

	"github.com/studybuddy-app/StudyBuddy-Server/internal/models"
)

// The four fixed outbound mail templates. Each returns subject and HTML
// body; plan details are substituted inline like the original web app's
// transactional mails.

const dueDateLayout = "Jan 2, 2006"

func planDetailsBlock(plan *models.StudyPlan) string {
	return fmt.Sprintf(`<div style="background-color: #F3F4F6; padding: 20px; border-radius: 8px; margin: 20px 0;">
  <h3 style="margin-top: 0;">Study Plan Details:</h3>
  <p><strong>Subject:</strong> %s</p>
  <p><strong>Due Date:</strong> %s</p>
  <p><strong>Progress:</strong> %d%%</p>
  <p><strong>Description:</strong> %s</p>
</div>`, plan.Subject, plan.DueDate.Format(dueDateLayout), plan.RoundedProgress(), plan.Description)
}

// DeadlineReminderMail renders the deadline reminder template. phrase is
// the human "time until deadline" text ("today", "tomorrow", "in N days").
func DeadlineReminderMail(displayName string, plan *models.StudyPlan, phrase string) (subject, html string) {
	subject = fmt.Sprintf("Deadline Reminder: %s", plan.Title)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4F46E5;">StudyBuddy - Deadline Reminder</h2>
  <p>Hello %s,</p>
  <p>This is a reminder that your study plan <strong>"%s"</strong> is due %s.</p>
  %s
  <p>Please make sure to complete your tasks and stay on track!</p>
  <p>Best regards,<br>StudyBuddy Team</p>
</div>`, displayName, plan.Title, phrase, planDetailsBlock(plan))
	return subject, html
}

// IncompletePlanMail renders the stagnant-progress update template.
func IncompletePlanMail(displayName string, plan *models.StudyPlan) (subject, html string) {
	subject = fmt.Sprintf("Study Plan Update: %s", plan.Title)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4F46E5;">StudyBuddy - Study Plan Update</h2>
  <p>Hello %s,</p>
  <p>Your study plan <strong>"%s"</strong> is currently %d%% complete.</p>
  %s
  <p>Keep up the great work and stay motivated!</p>
  <p>Best regards,<br>StudyBuddy Team</p>
</div>`, displayName, plan.Title, plan.RoundedProgress(), planDetailsBlock(plan))
	return subject, html
}

// InvitationMail renders the invitation template with its action URL.
func InvitationMail(inviterName, studyPlanTitle, invitationURL string) (subject, html string) {
	subject = fmt.Sprintf("You've been invited to join %q on StudyBuddy", studyPlanTitle)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4F46E5;">StudyBuddy - You're Invited!</h2>
  <p>Hello!</p>
  <p><strong>%s</strong> has invited you to join their study plan <strong>"%s"</strong> on StudyBuddy.</p>
  <div style="background-color: #F3F4F6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Study Plan Details:</h3>
    <p><strong>Title:</strong> %s</p>
    <p><strong>Invited by:</strong> %s</p>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block; font-weight: bold;">Accept Invitation</a>
  </div>
  <p>Click the button above to join the study plan and start collaborating with your team!</p>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #4F46E5;">%s</p>
  <p>Best regards,<br>StudyBuddy Team</p>
</div>`, inviterName, studyPlanTitle, studyPlanTitle, inviterName, invitationURL, invitationURL)
	return subject, html
}

// MemberAddedMail renders the member-added template with a link to the plan.
func MemberAddedMail(inviterName, studyPlanTitle, studyPlanURL string) (subject, html string) {
	subject = fmt.Sprintf("You've been added to %q on StudyBuddy", studyPlanTitle)
	html = fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4F46E5;">StudyBuddy - Welcome to the Team!</h2>
  <p>Hello!</p>
  <p><strong>%s</strong> has added you to their study plan <strong>"%s"</strong> on StudyBuddy.</p>
  <div style="background-color: #F3F4F6; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="margin-top: 0;">Study Plan Details:</h3>
    <p><strong>Title:</strong> %s</p>
    <p><strong>Added by:</strong> %s</p>
  </div>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 8px; display: inline-block; font-weight: bold;">View Study Plan</a>
  </div>
  <p>Click the button above to access the study plan and start collaborating with your team!</p>
  <p>If the button doesn't work, you can copy and paste this link into your browser:</p>
  <p style="word-break: break-all; color: #4F46E5;">%s</p>
  <p>Best regards,<br>StudyBuddy Team</p>
</div>`, inviterName, studyPlanTitle, studyPlanTitle, inviterName, studyPlanURL, studyPlanURL)
	return subject, html
}
