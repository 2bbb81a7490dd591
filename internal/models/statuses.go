package models

type UserRole string
type JobStatus string
type JobType string
type ExperienceLevel string
type ApplicationStatus string
type NotificationType string
type RelatedType string

const (
	UserRoleRecruiter UserRole = "RECRUITER"
	UserRoleApplier   UserRole = "APPLIER"
	UserRoleAdmin     UserRole = "ADMIN"

	JobStatusOpen   JobStatus = "OPEN"
	JobStatusClosed JobStatus = "CLOSED"

	JobTypeFullTime   JobType = "FULL_TIME"
	JobTypePartTime   JobType = "PART_TIME"
	JobTypeContract   JobType = "CONTRACT"
	JobTypeInternship JobType = "INTERNSHIP"
	JobTypeFreelance  JobType = "FREELANCE"

	ExperienceEntry  ExperienceLevel = "ENTRY"
	ExperienceJunior ExperienceLevel = "JUNIOR"
	ExperienceMid    ExperienceLevel = "MID"
	ExperienceSenior ExperienceLevel = "SENIOR"
	ExperienceLead   ExperienceLevel = "LEAD"

	ApplicationStatusPending   ApplicationStatus = "PENDING"
	ApplicationStatusReviewed  ApplicationStatus = "REVIEWED"
	ApplicationStatusAccepted  ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected  ApplicationStatus = "REJECTED"
	ApplicationStatusWithdrawn ApplicationStatus = "WITHDRAWN"

	NotificationApplicationUpdate NotificationType = "APPLICATION_UPDATE"
	NotificationNewJobMatch       NotificationType = "NEW_JOB_MATCH"
	NotificationInterviewInvite   NotificationType = "INTERVIEW_INVITE"
	NotificationSystemAlert       NotificationType = "SYSTEM_ALERT"
	NotificationJobExpiring       NotificationType = "JOB_EXPIRING"

	RelatedApplication RelatedType = "APPLICATION"
	RelatedJob         RelatedType = "JOB"
	RelatedSystem      RelatedType = "SYSTEM"
)

func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleRecruiter, UserRoleApplier, UserRoleAdmin:
		return true
	}
	return false
}

func (s JobStatus) IsValid() bool {
	return s == JobStatusOpen || s == JobStatusClosed
}

func (t JobType) IsValid() bool {
	switch t {
	case JobTypeFullTime, JobTypePartTime, JobTypeContract, JobTypeInternship, JobTypeFreelance:
		return true
	}
	return false
}

func (l ExperienceLevel) IsValid() bool {
	switch l {
	case ExperienceEntry, ExperienceJunior, ExperienceMid, ExperienceSenior, ExperienceLead:
		return true
	}
	return false
}

// ApplicationStatuses - все допустимые статусы отклика
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusReviewed,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// applicationTransitions - разрешенные переходы; повторная установка того же статуса допустима всегда
var applicationTransitions = map[ApplicationStatus][]ApplicationStatus{
	ApplicationStatusPending: {
		ApplicationStatusReviewed,
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
	ApplicationStatusReviewed: {
		ApplicationStatusAccepted,
		ApplicationStatusRejected,
		ApplicationStatusWithdrawn,
	},
}

func (s ApplicationStatus) IsValid() bool {
	for _, status := range ApplicationStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s == next {
		return true
	}
	for _, allowed := range applicationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal - из статуса нет переходов, кроме повторной установки того же
func (s ApplicationStatus) IsTerminal() bool {
	return len(applicationTransitions[s]) == 0
}

func (t NotificationType) IsValid() bool {
	switch t {
	case NotificationApplicationUpdate, NotificationNewJobMatch, NotificationInterviewInvite,
		NotificationSystemAlert, NotificationJobExpiring:
		return true
	}
	return false
}
