package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"gorm.io/gorm"
)

const maxSemester = 12

// ProfileService reads and completes the caller's profile.
type ProfileService struct {
	userRepo repository.UserRepository
}

// NewProfileService creates a new ProfileService.
func NewProfileService(userRepo repository.UserRepository) *ProfileService {
	return &ProfileService{userRepo: userRepo}
}

// ProfileInput carries the editable profile fields. Nil fields are left unchanged.
type ProfileInput struct {
	Name          *string
	Phone         *string
	College       *string
	Department    *string
	USN           *string
	Semester      *int
	Accommodation *bool
}

// Get returns the caller's profile.
func (s *ProfileService) Get(ctx context.Context, p *Principal) (*models.User, error) {
	if p == nil {
		return nil, ErrUnauthenticated
	}
	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

// Update applies the input and stores the profile. Completeness is recomputed
// on save.
func (s *ProfileService) Update(ctx context.Context, p *Principal, input ProfileInput) (*models.User, error) {
	user, err := s.Get(ctx, p)
	if err != nil {
		return nil, err
	}

	verr := &ValidationError{}
	if input.Semester != nil && (*input.Semester < 0 || *input.Semester > maxSemester) {
		verr.add("semester", fmt.Sprintf("must be between 0 and %d", maxSemester))
	}
	if input.Phone != nil && !validPhone(*input.Phone) {
		verr.add("phone", "must contain only digits, spaces, + or -")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	assign(&user.Name, input.Name)
	assign(&user.Phone, input.Phone)
	assign(&user.College, input.College)
	assign(&user.Department, input.Department)
	assign(&user.USN, input.USN)
	if input.USN != nil {
		user.USN = strings.ToUpper(user.USN)
	}
	if input.Semester != nil {
		user.Semester = *input.Semester
	}
	if input.Accommodation != nil {
		user.Accommodation = *input.Accommodation
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return user, nil
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func validPhone(phone string) bool {
	for _, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9', r == '+', r == '-', r == ' ':
		default:
			return false
		}
	}
	return true
}
