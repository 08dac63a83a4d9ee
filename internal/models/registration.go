package models

import "time"

type PaymentStatus string

const (
	PaymentPaid     PaymentStatus = "PAID"
	PaymentUnpaid   PaymentStatus = "UNPAID"
	PaymentRefunded PaymentStatus = "REFUNDED"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPaid, PaymentUnpaid, PaymentRefunded:
		return true
	}
	return false
}

type Registration struct {
	ID             uint64        `gorm:"primarykey" json:"id"`
	RegistrationID string        `gorm:"type:varchar(32);uniqueIndex;not null" json:"registration_id"`
	UserID         uint64        `gorm:"not null;uniqueIndex:idx_registration_user_event" json:"user_id"`
	EventID        uint64        `gorm:"not null;uniqueIndex:idx_registration_user_event;index" json:"event_id"`
	PaymentStatus  PaymentStatus `gorm:"type:varchar(10);not null;default:'UNPAID';index" json:"payment_status"`
	TeamSize       int           `gorm:"not null;default:1" json:"team_size"`
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations
	User        User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Event       Event        `gorm:"foreignKey:EventID" json:"event,omitempty"`
	TeamMembers []TeamMember `gorm:"foreignKey:RegistrationID" json:"team_members,omitempty"`
}
