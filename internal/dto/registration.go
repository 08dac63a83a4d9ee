package dto

import (
	"time"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
)

// TeamMemberDTO represents one team member
type TeamMemberDTO struct {
	Name     string `json:"name"`
	USN      string `json:"usn"`
	Phone    string `json:"phone"`
	IsLeader bool   `json:"is_leader"`
}

// EventSummaryDTO is the event attached to a registration
type EventSummaryDTO struct {
	ID          uint64               `json:"id"`
	Title       string               `json:"title"`
	Category    models.EventCategory `json:"category"`
	Date        *time.Time           `json:"date"`
	Fee         int64                `json:"fee"`
	IsTeamEvent bool                 `json:"is_team_event"`
}

// RegistrationDTO represents a registration in API responses
type RegistrationDTO struct {
	RegistrationID string               `json:"registration_id"`
	UserID         uint64               `json:"user_id"`
	EventID        uint64               `json:"event_id"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	TeamSize       int                  `json:"team_size"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`
	Event          *EventSummaryDTO     `json:"event,omitempty"`
	User           *UserDTO             `json:"user,omitempty"`
	TeamMembers    []TeamMemberDTO      `json:"team_members,omitempty"`
}

// RegistrationRowDTO is one row of the admin registration listing
type RegistrationRowDTO struct {
	RegistrationID string               `json:"registration_id"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	TeamSize       int                  `json:"team_size"`
	CreatedAt      time.Time            `json:"created_at"`
	UpdatedAt      time.Time            `json:"updated_at"`

	UserID         uint64 `json:"user_id"`
	UserNumericID  uint32 `json:"user_numeric_id"`
	UserName       string `json:"user_name"`
	UserEmail      string `json:"user_email"`
	UserUSN        string `json:"user_usn"`
	UserPhone      string `json:"user_phone"`
	UserCollege    string `json:"user_college"`
	UserDepartment string `json:"user_department"`

	EventID       uint64               `json:"event_id"`
	EventTitle    string               `json:"event_title"`
	EventCategory models.EventCategory `json:"event_category"`
	EventFee      int64                `json:"event_fee"`
	EventIsTeam   bool                 `json:"event_is_team"`
}

// RegistrationListResponse represents a paginated list of registrations
type RegistrationListResponse struct {
	Registrations []RegistrationRowDTO `json:"registrations"`
	Page          int                  `json:"page"`
	PageSize      int                  `json:"page_size"`
	TotalCount    int64                `json:"total_count"`
	TotalPages    int                  `json:"total_pages"`
}

// ToRegistrationDTO converts a registration with its loaded relations
func ToRegistrationDTO(reg models.Registration) RegistrationDTO {
	out := RegistrationDTO{
		RegistrationID: reg.RegistrationID,
		UserID:         reg.UserID,
		EventID:        reg.EventID,
		PaymentStatus:  reg.PaymentStatus,
		TeamSize:       reg.TeamSize,
		CreatedAt:      reg.CreatedAt,
		UpdatedAt:      reg.UpdatedAt,
	}

	if reg.Event.ID != 0 {
		out.Event = &EventSummaryDTO{
			ID:          reg.Event.ID,
			Title:       reg.Event.Title,
			Category:    reg.Event.Category,
			Date:        reg.Event.Date,
			Fee:         reg.Event.Fee,
			IsTeamEvent: reg.Event.IsTeamEvent,
		}
	}
	if reg.User.ID != 0 {
		user := ToUserDTO(reg.User)
		out.User = &user
	}
	if len(reg.TeamMembers) > 0 {
		out.TeamMembers = make([]TeamMemberDTO, len(reg.TeamMembers))
		for i, m := range reg.TeamMembers {
			out.TeamMembers[i] = TeamMemberDTO{Name: m.Name, USN: m.USN, Phone: m.Phone, IsLeader: m.IsLeader}
		}
	}
	return out
}

// ToRegistrationDTOs converts a slice of registrations
func ToRegistrationDTOs(regs []models.Registration) []RegistrationDTO {
	out := make([]RegistrationDTO, len(regs))
	for i, reg := range regs {
		out[i] = ToRegistrationDTO(reg)
	}
	return out
}

// ToRegistrationRowDTO converts a denormalized query row
func ToRegistrationRowDTO(row repository.RegistrationRow) RegistrationRowDTO {
	return RegistrationRowDTO{
		RegistrationID: row.RegistrationID,
		PaymentStatus:  row.PaymentStatus,
		TeamSize:       row.TeamSize,
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
		UserID:         row.UserID,
		UserNumericID:  row.UserNumericID,
		UserName:       row.UserName,
		UserEmail:      row.UserEmail,
		UserUSN:        row.UserUSN,
		UserPhone:      row.UserPhone,
		UserCollege:    row.UserCollege,
		UserDepartment: row.UserDepartment,
		EventID:        row.EventID,
		EventTitle:     row.EventTitle,
		EventCategory:  row.EventCategory,
		EventFee:       row.EventFee,
		EventIsTeam:    row.EventIsTeam,
	}
}
