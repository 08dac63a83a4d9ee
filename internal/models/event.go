package models

import (
	"time"
)

type EventCategory string

const (
	CategoryCentralized EventCategory = "CENTRALIZED"
	CategoryTechnical   EventCategory = "TECHNICAL"
	CategoryCultural    EventCategory = "CULTURAL"
	CategoryFineArts    EventCategory = "FINEARTS"
	CategoryLiterary    EventCategory = "LITERARY"
)

// EventCategories lists every category in display order.
var EventCategories = []EventCategory{
	CategoryCentralized,
	CategoryTechnical,
	CategoryCultural,
	CategoryFineArts,
	CategoryLiterary,
}

// Valid reports whether c is one of the known categories.
func (c EventCategory) Valid() bool {
	for _, known := range EventCategories {
		if c == known {
			return true
		}
	}
	return false
}

type Event struct {
	ID              uint64        `gorm:"primarykey" json:"id"`
	Title           string        `gorm:"type:varchar(255);not null" json:"title"`
	Description     string        `gorm:"type:text" json:"description"`
	Category        EventCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	Department      string        `gorm:"type:varchar(100)" json:"department,omitempty"`
	Date            *time.Time    `json:"date"`
	Time            string        `gorm:"type:varchar(50)" json:"time"`
	Location        string        `gorm:"type:varchar(255)" json:"location"`
	Capacity        int           `gorm:"not null;default:0" json:"capacity"`
	Fee             int64         `gorm:"not null;default:0" json:"fee"`
	IsTeamEvent     bool          `gorm:"not null;default:false" json:"is_team_event"`
	MinTeamSize     int           `gorm:"not null;default:1" json:"min_team_size"`
	MaxTeamSize     int           `gorm:"not null;default:1" json:"max_team_size"`
	RegisteredCount int           `gorm:"not null;default:0" json:"registered_count"`
	ImageURL        string        `gorm:"type:varchar(1024)" json:"image_url,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`

	// Relations
	Registrations []Registration `gorm:"foreignKey:EventID" json:"-"`
}

// HasCapacityLimit is false for events created with capacity 0.
func (e *Event) HasCapacityLimit() bool {
	return e.Capacity > 0
}

// IsFull reports whether the registered count has reached capacity.
func (e *Event) IsFull() bool {
	return e.HasCapacityLimit() && e.RegisteredCount >= e.Capacity
}

// Remaining returns the free seats, or -1 for unlimited events.
func (e *Event) Remaining() int {
	if !e.HasCapacityLimit() {
		return -1
	}
	if left := e.Capacity - e.RegisteredCount; left > 0 {
		return left
	}
	return 0
}
