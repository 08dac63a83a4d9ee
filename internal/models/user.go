package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID               uint64    `gorm:"primarykey" json:"id"`
	NumericID        uint32    `gorm:"uniqueIndex;not null" json:"numeric_id"`
	PublicID         string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"public_id"`
	Email            string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string    `gorm:"type:varchar(255);not null" json:"-"`
	Role             Role      `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	Name             string    `gorm:"type:varchar(255)" json:"name"`
	Phone            string    `gorm:"type:varchar(20)" json:"phone"`
	College          string    `gorm:"type:varchar(255)" json:"college"`
	Department       string    `gorm:"type:varchar(100)" json:"department"`
	USN              string    `gorm:"column:usn;type:varchar(20);index" json:"usn"`
	Semester         int       `json:"semester"`
	Accommodation    bool      `gorm:"not null;default:false" json:"accommodation"`
	ProfileCompleted bool      `gorm:"not null;default:false" json:"profile_completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	// Relations
	Registrations []Registration `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeSave keeps ProfileCompleted derived from the profile fields on every write.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.ProfileCompleted = ProfileComplete(u.Department, u.College, u.Phone, u.USN)
	return nil
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ProfileComplete is true when every field is non-empty after trimming.
func ProfileComplete(department, college, phone, usn string) bool {
	for _, v := range []string{department, college, phone, usn} {
		if strings.TrimSpace(v) == "" {
			return false
		}
	}
	return true
}
