package dto

import "time"

// ---------------- Requests ----------------

type CreateJobRequest struct {
	Title           string     `json:"title" validate:"notblank,max=200"`
	Description     string     `json:"description" validate:"notblank"`
	Requirements    string     `json:"requirements"`
	Salary          *string    `json:"salary" validate:"omitempty,max=100"`
	Location        string     `json:"location" validate:"notblank,max=200"`
	JobType         string     `json:"jobType" validate:"omitempty,is-job-type"`
	ExperienceLevel string     `json:"experienceLevel" validate:"omitempty,is-experience-level"`
	Category        string     `json:"category" validate:"omitempty,max=100"`
	Tags            []string   `json:"tags" validate:"omitempty,max=50,dive,notblank"`
	IsRemote        bool       `json:"isRemote"`
	ExpiresAt       *time.Time `json:"expiresAt"`
}

// UpdateJobRequest - частичное обновление, nil означает "не менять"
type UpdateJobRequest struct {
	Title           *string    `json:"title,omitempty" validate:"omitempty,notblank,max=200"`
	Description     *string    `json:"description,omitempty" validate:"omitempty,notblank"`
	Requirements    *string    `json:"requirements,omitempty"`
	Salary          *string    `json:"salary,omitempty" validate:"omitempty,max=100"`
	Location        *string    `json:"location,omitempty" validate:"omitempty,notblank,max=200"`
	JobType         *string    `json:"jobType,omitempty" validate:"omitempty,is-job-type"`
	ExperienceLevel *string    `json:"experienceLevel,omitempty" validate:"omitempty,is-experience-level"`
	Category        *string    `json:"category,omitempty" validate:"omitempty,notblank,max=100"`
	Tags            []string   `json:"tags,omitempty" validate:"omitempty,max=50,dive,notblank"`
	IsRemote        *bool      `json:"isRemote,omitempty"`
	Status          *string    `json:"status,omitempty" validate:"omitempty,is-job-status"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

// ListJobsQuery - параметры GET /jobs; page/limit проверяются мягко в ParsePagination
type ListJobsQuery struct {
	Search          string `form:"search" validate:"omitempty,max=200"`
	Category        string `form:"category" validate:"omitempty,max=100"`
	JobType         string `form:"jobType" validate:"omitempty,is-job-type"`
	ExperienceLevel string `form:"experienceLevel" validate:"omitempty,is-experience-level"`
	IsRemote        *bool  `form:"isRemote"`
}

// ---------------- Responses ----------------

type RecruiterSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Bio    string   `json:"bio,omitempty"`
	Skills []string `json:"skills"`
}

type JobResponse struct {
	ID                string            `json:"id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	Requirements      string            `json:"requirements"`
	Salary            *string           `json:"salary"`
	Location          string            `json:"location"`
	JobType           string            `json:"jobType"`
	ExperienceLevel   string            `json:"experienceLevel"`
	Category          string            `json:"category"`
	Tags              []string          `json:"tags"`
	IsRemote          bool              `json:"isRemote"`
	Status            string            `json:"status"`
	ExpiresAt         *time.Time        `json:"expiresAt"`
	RecruiterID       string            `json:"recruiterId"`
	Recruiter         *RecruiterSummary `json:"recruiter,omitempty"`
	ApplicationsCount int64             `json:"applicationsCount"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

type Pagination struct {
	Current    int   `json:"current"`
	TotalPages int   `json:"totalPages"`
	Total      int64 `json:"total"`
	HasNext    bool  `json:"hasNext"`
}

// NewPagination - totalPages = ceil(total/limit), hasNext = page < totalPages
func NewPagination(page, limit int, total int64) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return Pagination{
		Current:    page,
		TotalPages: totalPages,
		Total:      total,
		HasNext:    page < totalPages,
	}
}

type JobListResponse struct {
	Message    string         `json:"message"`
	Jobs       []*JobResponse `json:"jobs"`
	Pagination Pagination     `json:"pagination"`
}

type JobsMessageResponse struct {
	Message string         `json:"message"`
	Jobs    []*JobResponse `json:"jobs"`
}

type JobMessageResponse struct {
	Message string       `json:"message"`
	Job     *JobResponse `json:"job"`
}
