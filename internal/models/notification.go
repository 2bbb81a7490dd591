package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID      string           `gorm:"type:varchar(36);not null;index:idx_notifications_user_read,priority:1"`
	Type        NotificationType `gorm:"type:varchar(32);not null;index"`
	Title       string           `gorm:"not null"`
	Message     string           `gorm:"type:text;not null"`
	RelatedID   *string          `gorm:"type:varchar(36)"`
	RelatedType *RelatedType     `gorm:"type:varchar(20)"`
	Data        datatypes.JSON   // {"status": "ACCEPTED", "jobTitle": "..."}
	IsRead      bool             `gorm:"not null;default:false;index:idx_notifications_user_read,priority:2"`
	ReadAt      *time.Time
}
