package services

import (
	"fmt"

	"shebeka_backend/internal/models"
)

// templateParams - данные события, из которых собирается текст уведомления
type templateParams struct {
	JobTitle string
	Company  string
	Date     string
	Status   models.ApplicationStatus
	DaysLeft int
	Title    string
	Message  string
}

type notificationTemplate struct {
	relatedType models.RelatedType
	title       func(p templateParams) string
	message     func(p templateParams) string
}

func fixedTitle(title string) func(templateParams) string {
	return func(templateParams) string { return title }
}

// statusMessages - текст APPLICATION_UPDATE по новому статусу
var statusMessages = map[models.ApplicationStatus]string{
	models.ApplicationStatusReviewed:  "Your application for \"%s\" has been reviewed",
	models.ApplicationStatusAccepted:  "🎉 Congratulations! Your application for \"%s\" has been accepted!",
	models.ApplicationStatusRejected:  "Your application for \"%s\" was not selected",
	models.ApplicationStatusWithdrawn: "You withdrew your application for \"%s\"",
}

const defaultStatusMessage = "Your application for \"%s\" has been updated"

// notificationTemplates - новый тип события добавляется строкой в таблицу
var notificationTemplates = map[models.NotificationType]notificationTemplate{
	models.NotificationApplicationUpdate: {
		relatedType: models.RelatedApplication,
		title:       fixedTitle("Application Update"),
		message: func(p templateParams) string {
			format, ok := statusMessages[p.Status]
			if !ok {
				format = defaultStatusMessage
			}
			return fmt.Sprintf(format, p.JobTitle)
		},
	},
	models.NotificationNewJobMatch: {
		relatedType: models.RelatedJob,
		title:       fixedTitle("New Job Match"),
		message: func(p templateParams) string {
			return fmt.Sprintf("New job \"%s\" at %s matches your skills!", p.JobTitle, p.Company)
		},
	},
	models.NotificationInterviewInvite: {
		relatedType: models.RelatedJob,
		title:       fixedTitle("Interview Invitation"),
		message: func(p templateParams) string {
			return fmt.Sprintf("You've been invited for an interview for \"%s\" on %s", p.JobTitle, p.Date)
		},
	},
	models.NotificationSystemAlert: {
		relatedType: models.RelatedSystem,
		title:       func(p templateParams) string { return p.Title },
		message:     func(p templateParams) string { return p.Message },
	},
	models.NotificationJobExpiring: {
		relatedType: models.RelatedJob,
		title:       fixedTitle("Job Expiring Soon"),
		message: func(p templateParams) string {
			unit := "days"
			if p.DaysLeft == 1 {
				unit = "day"
			}
			return fmt.Sprintf("Your job posting \"%s\" is expiring in %d %s", p.JobTitle, p.DaysLeft, unit)
		},
	},
}

// renderNotification собирает запись уведомления; relatedID может быть пустым (SYSTEM_ALERT)
func renderNotification(kind models.NotificationType, userID, relatedID string, p templateParams) (*models.Notification, error) {
	tmpl, ok := notificationTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("no template for notification type %q", kind)
	}

	n := &models.Notification{
		UserID:  userID,
		Type:    kind,
		Title:   tmpl.title(p),
		Message: tmpl.message(p),
	}
	rt := tmpl.relatedType
	n.RelatedType = &rt
	if relatedID != "" {
		id := relatedID
		n.RelatedID = &id
	}
	return n, nil
}
