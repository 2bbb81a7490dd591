package models

import (
	"time"

	"gorm.io/datatypes"
)

// Job - вакансия; удаление мягкое, чтобы отклики кандидатов не теряли связь с вакансией
type Job struct {
	BaseModelWithDeleted
	Title            string          `gorm:"not null"`
	Description      string          `gorm:"type:text;not null"`
	Requirements     string          `gorm:"type:text"`
	Salary           *string
	Location         string          `gorm:"not null"`
	JobType          JobType         `gorm:"type:varchar(20);not null;default:'FULL_TIME'"`
	ExperienceLevel  ExperienceLevel `gorm:"type:varchar(20);not null;default:'MID'"`
	Category         string          `gorm:"not null;default:'General';index"`
	Tags             datatypes.JSONSlice[string]
	IsRemote         bool       `gorm:"not null;default:false"`
	Status           JobStatus  `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	ExpiresAt        *time.Time `gorm:"index"`
	ExpiryNotifiedAt *time.Time
	RecruiterID      string `gorm:"type:varchar(36);not null;index"`

	// Relations
	Recruiter *User `gorm:"foreignKey:RecruiterID"`

	// Заполняется запросом (COUNT по applications), не колонка
	ApplicationsCount int64 `gorm:"->;-:migration"`
}

func (j *Job) IsOpen() bool {
	return j.Status == JobStatusOpen
}
