package models

import (
	"gorm.io/datatypes"
)

type User struct {
	BaseModel
	Name         string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;not null"`
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;index"`
	Phone        string
	Bio          string `gorm:"type:text"`
	Location     string
	Skills       datatypes.JSONSlice[string]
	Resume       string
	Avatar       string
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// HasSkill - сравнение точное, как при добавлении навыка
func (u *User) HasSkill(skill string) bool {
	for _, s := range u.Skills {
		if s == skill {
			return true
		}
	}
	return false
}
