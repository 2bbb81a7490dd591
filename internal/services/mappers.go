package services

import (
	"encoding/json"

	"shebeka_backend/internal/models"
	"shebeka_backend/internal/services/dto"
)

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func buildUserSummary(u *models.User) *dto.UserSummary {
	return &dto.UserSummary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
}

func buildRecruiterSummary(u *models.User) *dto.RecruiterSummary {
	if u == nil {
		return nil
	}
	return &dto.RecruiterSummary{
		ID:     u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Bio:    u.Bio,
		Skills: stringsOrEmpty(u.Skills),
	}
}

func buildApplicantSummary(u *models.User) *dto.ApplicantSummary {
	if u == nil {
		return nil
	}
	return &dto.ApplicantSummary{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Phone:    u.Phone,
		Bio:      u.Bio,
		Location: u.Location,
		Skills:   stringsOrEmpty(u.Skills),
		Resume:   u.Resume,
		Avatar:   u.Avatar,
	}
}

func buildJobResponse(j *models.Job) *dto.JobResponse {
	return &dto.JobResponse{
		ID:                j.ID,
		Title:             j.Title,
		Description:       j.Description,
		Requirements:      j.Requirements,
		Salary:            j.Salary,
		Location:          j.Location,
		JobType:           string(j.JobType),
		ExperienceLevel:   string(j.ExperienceLevel),
		Category:          j.Category,
		Tags:              stringsOrEmpty(j.Tags),
		IsRemote:          j.IsRemote,
		Status:            string(j.Status),
		ExpiresAt:         j.ExpiresAt,
		RecruiterID:       j.RecruiterID,
		Recruiter:         buildRecruiterSummary(j.Recruiter),
		ApplicationsCount: j.ApplicationsCount,
		CreatedAt:         j.CreatedAt,
		UpdatedAt:         j.UpdatedAt,
	}
}

func buildApplicationResponse(a *models.Application) *dto.ApplicationResponse {
	resp := &dto.ApplicationResponse{
		ID:          a.ID,
		JobID:       a.JobID,
		ApplierID:   a.ApplierID,
		CoverLetter: a.CoverLetter,
		Resume:      a.Resume,
		Status:      string(a.Status),
		Applier:     buildApplicantSummary(a.Applier),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Job != nil {
		resp.Job = &dto.ApplicationJobSummary{
			ID:        a.Job.ID,
			Title:     a.Job.Title,
			Location:  a.Job.Location,
			JobType:   string(a.Job.JobType),
			Status:    string(a.Job.Status),
			Recruiter: buildRecruiterSummary(a.Job.Recruiter),
		}
	}
	return resp
}

func buildNotificationResponse(n *models.Notification) *dto.NotificationResponse {
	resp := &dto.NotificationResponse{
		ID:        n.ID,
		UserID:    n.UserID,
		Type:      string(n.Type),
		Title:     n.Title,
		Message:   n.Message,
		RelatedID: n.RelatedID,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
	if n.RelatedType != nil {
		rt := string(*n.RelatedType)
		resp.RelatedType = &rt
	}
	if len(n.Data) > 0 {
		var data map[string]interface{}
		if err := json.Unmarshal(n.Data, &data); err == nil {
			resp.Data = data
		}
	}
	return resp
}

func buildProfileResponse(u *models.User) *dto.ProfileResponse {
	return &dto.ProfileResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Phone:     u.Phone,
		Bio:       u.Bio,
		Location:  u.Location,
		Skills:    stringsOrEmpty(u.Skills),
		Resume:    u.Resume,
		Avatar:    u.Avatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func buildPublicProfileResponse(u *models.User) *dto.PublicProfileResponse {
	return &dto.PublicProfileResponse{
		ID:       u.ID,
		Name:     u.Name,
		Bio:      u.Bio,
		Location: u.Location,
		Skills:   stringsOrEmpty(u.Skills),
		Resume:   u.Resume,
		Avatar:   u.Avatar,
	}
}
