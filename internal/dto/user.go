package dto

import (
	"time"

	"github.com/yukikurage/fest-registration-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID               uint64      `json:"id"`
	NumericID        uint32      `json:"numeric_id"`
	PublicID         string      `json:"public_id"`
	Email            string      `json:"email"`
	Role             models.Role `json:"role"`
	Name             string      `json:"name"`
	Phone            string      `json:"phone"`
	College          string      `json:"college"`
	Department       string      `json:"department"`
	USN              string      `json:"usn"`
	Semester         int         `json:"semester"`
	Accommodation    bool        `json:"accommodation"`
	ProfileCompleted bool        `json:"profile_completed"`
	CreatedAt        time.Time   `json:"created_at"`
}

// ResumeDTO tells the client which registration to retry after the profile is complete
type ResumeDTO struct {
	EventID     uint64 `json:"event_id"`
	IsTeamEvent bool   `json:"is_team_event"`
}

// ProfileResponse is returned by the profile update endpoint
type ProfileResponse struct {
	User   UserDTO    `json:"user"`
	Resume *ResumeDTO `json:"resume,omitempty"`
}

// ToUserDTO converts a user model to DTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:               user.ID,
		NumericID:        user.NumericID,
		PublicID:         user.PublicID,
		Email:            user.Email,
		Role:             user.Role,
		Name:             user.Name,
		Phone:            user.Phone,
		College:          user.College,
		Department:       user.Department,
		USN:              user.USN,
		Semester:         user.Semester,
		Accommodation:    user.Accommodation,
		ProfileCompleted: user.ProfileCompleted,
		CreatedAt:        user.CreatedAt,
	}
}
