package dto

import "time"

// ---------------- Requests ----------------

// UpdateProfileRequest - nil означает "не менять"
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" validate:"omitempty,notblank,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=30"`
	Bio      *string `json:"bio,omitempty" validate:"omitempty,max=2000"`
	Location *string `json:"location,omitempty" validate:"omitempty,max=200"`
}

type AddSkillRequest struct {
	Skill string `json:"skill" validate:"notblank,max=50"`
}

type ResumeURLRequest struct {
	ResumeURL string `json:"resumeUrl" validate:"notblank,max=500"`
}

type AvatarURLRequest struct {
	AvatarURL string `json:"avatarUrl" validate:"notblank,max=500"`
}

// ---------------- Responses ----------------

type ProfileResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     string    `json:"phone"`
	Bio       string    `json:"bio"`
	Location  string    `json:"location"`
	Skills    []string  `json:"skills"`
	Resume    string    `json:"resume"`
	Avatar    string    `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// PublicProfileResponse - без email и телефона
type PublicProfileResponse struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Bio      string   `json:"bio"`
	Location string   `json:"location"`
	Skills   []string `json:"skills"`
	Resume   string   `json:"resume"`
	Avatar   string   `json:"avatar"`
}

type ProfileMessageResponse struct {
	Message string           `json:"message"`
	User    *ProfileResponse `json:"user"`
}

type PublicProfileMessageResponse struct {
	Message string                 `json:"message"`
	User    *PublicProfileResponse `json:"user"`
}

type SkillsResponse struct {
	Message string   `json:"message"`
	Skills  []string `json:"skills"`
}

type FileResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}
