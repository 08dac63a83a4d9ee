package models

import "time"

type TeamMember struct {
	ID             uint64    `gorm:"primarykey" json:"id"`
	RegistrationID uint64    `gorm:"not null;index" json:"registration_id"`
	Name           string    `gorm:"type:varchar(255);not null" json:"name"`
	USN            string    `gorm:"column:usn;type:varchar(20);not null" json:"usn"`
	Phone          string    `gorm:"type:varchar(20);not null" json:"phone"`
	IsLeader       bool      `gorm:"not null;default:false" json:"is_leader"`
	CreatedAt      time.Time `json:"created_at"`
}
