package dto

import "time"

// ---------------- Requests ----------------

type ApplyRequest struct {
	CoverLetter string `json:"coverLetter" validate:"omitempty,max=5000"`
	Resume      string `json:"resume" validate:"omitempty,max=500"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status" validate:"required,is-application-status"`
}

type InterviewInviteRequest struct {
	Date string `json:"date" validate:"notblank,max=100"`
}

// ---------------- Responses ----------------

type ApplicantSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Email    string   `json:"email"`
	Phone    string   `json:"phone,omitempty"`
	Bio      string   `json:"bio,omitempty"`
	Location string   `json:"location,omitempty"`
	Skills   []string `json:"skills"`
	Resume   string   `json:"resume,omitempty"`
	Avatar   string   `json:"avatar,omitempty"`
}

type ApplicationJobSummary struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Location  string            `json:"location"`
	JobType   string            `json:"jobType"`
	Status    string            `json:"status"`
	Recruiter *RecruiterSummary `json:"recruiter,omitempty"`
}

type ApplicationResponse struct {
	ID          string                 `json:"id"`
	JobID       string                 `json:"jobId"`
	ApplierID   string                 `json:"applierId"`
	CoverLetter string                 `json:"coverLetter"`
	Resume      string                 `json:"resume"`
	Status      string                 `json:"status"`
	Job         *ApplicationJobSummary `json:"job,omitempty"`
	Applier     *ApplicantSummary      `json:"applier,omitempty"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type ApplicationMessageResponse struct {
	Message     string               `json:"message"`
	Application *ApplicationResponse `json:"application"`
}

type ApplicationListResponse struct {
	Message      string                 `json:"message"`
	Applications []*ApplicationResponse `json:"applications"`
}

type ApplicationStatsMessageResponse struct {
	Message string                    `json:"message"`
	Stats   *ApplicationStatsResponse `json:"stats"`
}

type ApplicationStatsResponse struct {
	Total    int64            `json:"total"`
	ByStatus map[string]int64 `json:"byStatus"`
}
