package models

type Application struct {
	BaseModel
	ApplierID   string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_applier_job,priority:1"`
	JobID       string            `gorm:"type:varchar(36);not null;uniqueIndex:idx_applications_applier_job,priority:2;index"`
	CoverLetter string            `gorm:"type:text"`
	Resume      string
	Status      ApplicationStatus `gorm:"type:varchar(20);not null;default:'PENDING';index"`

	// Relations
	Job     *Job  `gorm:"foreignKey:JobID"`
	Applier *User `gorm:"foreignKey:ApplierID"`
}
