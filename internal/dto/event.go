package dto

import (
	"time"

	"github.com/yukikurage/fest-registration-api/internal/models"
)

// EventDTO represents an event in API responses
type EventDTO struct {
	ID              uint64               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Category        models.EventCategory `json:"category"`
	Department      string               `json:"department,omitempty"`
	Date            *time.Time           `json:"date"`
	Time            string               `json:"time"`
	Location        string               `json:"location"`
	Capacity        int                  `json:"capacity"`
	Fee             int64                `json:"fee"`
	IsTeamEvent     bool                 `json:"is_team_event"`
	MinTeamSize     int                  `json:"min_team_size"`
	MaxTeamSize     int                  `json:"max_team_size"`
	RegisteredCount int                  `json:"registered_count"`
	// RemainingSeats is -1 for events without a capacity limit
	RemainingSeats int       `json:"remaining_seats"`
	ImageURL       string    `json:"image_url,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// EventListResponse represents a paginated list of events
type EventListResponse struct {
	Events     []EventDTO `json:"events"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
	TotalCount int64      `json:"total_count"`
	TotalPages int        `json:"total_pages"`
}

// ToEventDTO converts an event model to DTO
func ToEventDTO(event models.Event) EventDTO {
	return EventDTO{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Category:        event.Category,
		Department:      event.Department,
		Date:            event.Date,
		Time:            event.Time,
		Location:        event.Location,
		Capacity:        event.Capacity,
		Fee:             event.Fee,
		IsTeamEvent:     event.IsTeamEvent,
		MinTeamSize:     event.MinTeamSize,
		MaxTeamSize:     event.MaxTeamSize,
		RegisteredCount: event.RegisteredCount,
		RemainingSeats:  event.Remaining(),
		ImageURL:        event.ImageURL,
		CreatedAt:       event.CreatedAt,
		UpdatedAt:       event.UpdatedAt,
	}
}

// ToEventDTOs converts a slice of events
func ToEventDTOs(events []models.Event) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, event := range events {
		out[i] = ToEventDTO(event)
	}
	return out
}
