package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"gorm.io/gorm"
)

// RegistrationService admits users into events.
type RegistrationService struct {
	userRepo         repository.UserRepository
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository
	ids              repository.IDGenerator
}

// NewRegistrationService creates a new RegistrationService.
func NewRegistrationService(
	userRepo repository.UserRepository,
	eventRepo repository.EventRepository,
	registrationRepo repository.RegistrationRepository,
	ids repository.IDGenerator,
) *RegistrationService {
	return &RegistrationService{
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		ids:              ids,
	}
}

// TeamMemberInput is an additional team member besides the registering user.
type TeamMemberInput struct {
	Name  string
	USN   string
	Phone string
}

// RegisterInput names the event and, for team events, the other members.
type RegisterInput struct {
	EventID uint64
	Members []TeamMemberInput
}

// Register admits the caller into an event. Checks run in a fixed order:
// authentication, profile completeness, event existence, duplicates, team
// composition and finally capacity inside the persisting transaction.
func (s *RegistrationService) Register(ctx context.Context, p *Principal, input RegisterInput) (*models.Registration, error) {
	if p == nil || p.UserID == 0 {
		return nil, ErrUnauthenticated
	}

	user, err := s.userRepo.FindByID(ctx, p.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.ProfileCompleted {
		incomplete := &ProfileIncompleteError{EventID: input.EventID}
		if event, err := s.eventRepo.FindByID(ctx, input.EventID); err == nil {
			incomplete.IsTeamEvent = event.IsTeamEvent
		}
		return nil, incomplete
	}

	event, err := s.eventRepo.FindByID(ctx, input.EventID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	exists, err := s.registrationRepo.Exists(ctx, user.ID, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check registration: %w", err)
	}
	if exists {
		return nil, ErrDuplicateRegistration
	}

	members, err := validateTeam(event, input.Members)
	if err != nil {
		return nil, err
	}

	reg := &models.Registration{
		UserID:        user.ID,
		EventID:       event.ID,
		PaymentStatus: models.PaymentUnpaid,
		TeamSize:      1,
	}

	var rows []models.TeamMember
	if event.IsTeamEvent {
		reg.TeamSize = len(members) + 1
		rows = append(rows, leaderRow(user))
		rows = append(rows, members...)
	}

	if err := s.registrationRepo.Admit(ctx, reg, rows, s.ids); err != nil {
		switch {
		case errors.Is(err, repository.ErrEventFull):
			return nil, ErrEventFull
		case errors.Is(err, gorm.ErrDuplicatedKey):
			return nil, ErrDuplicateRegistration
		case errors.Is(err, identity.ErrNotFound):
			return nil, ErrEventNotFound
		default:
			return nil, fmt.Errorf("failed to store registration: %w", err)
		}
	}

	stored, err := s.registrationRepo.FindByRegistrationID(ctx, reg.RegistrationID, "Event", "TeamMembers")
	if err != nil {
		return nil, fmt.Errorf("failed to reload registration: %w", err)
	}
	return stored, nil
}

// ListMine returns the caller's registrations, newest first.
func (s *RegistrationService) ListMine(ctx context.Context, p *Principal) ([]models.Registration, error) {
	if p == nil || p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	regs, err := s.registrationRepo.ListByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	return regs, nil
}

// GetMine returns one of the caller's registrations. Registrations of other
// users are reported as not found.
func (s *RegistrationService) GetMine(ctx context.Context, p *Principal, registrationID string) (*models.Registration, error) {
	if p == nil || p.UserID == 0 {
		return nil, ErrUnauthenticated
	}
	reg, err := s.registrationRepo.FindByRegistrationID(ctx, strings.TrimSpace(registrationID), "Event", "TeamMembers")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to find registration: %w", err)
	}
	if reg.UserID != p.UserID && !p.IsAdmin() {
		return nil, ErrRegistrationNotFound
	}
	return reg, nil
}

// validateTeam checks the additional members against the event bounds and
// converts them to rows.
func validateTeam(event *models.Event, input []TeamMemberInput) ([]models.TeamMember, error) {
	if !event.IsTeamEvent {
		if len(input) > 0 {
			return nil, &TeamSizeError{Min: 1, Max: 1, Got: len(input) + 1}
		}
		return nil, nil
	}

	extra := len(input)
	if extra < event.MinTeamSize-1 || extra > event.MaxTeamSize-1 {
		return nil, &TeamSizeError{Min: event.MinTeamSize, Max: event.MaxTeamSize, Got: extra + 1}
	}

	members := make([]models.TeamMember, 0, extra)
	for i, m := range input {
		member := models.TeamMember{
			Name:  strings.TrimSpace(m.Name),
			USN:   strings.ToUpper(strings.TrimSpace(m.USN)),
			Phone: strings.TrimSpace(m.Phone),
		}
		switch {
		case member.Name == "":
			return nil, &TeamMemberError{Index: i, Field: "name"}
		case member.USN == "":
			return nil, &TeamMemberError{Index: i, Field: "usn"}
		case member.Phone == "":
			return nil, &TeamMemberError{Index: i, Field: "phone"}
		}
		members = append(members, member)
	}
	return members, nil
}

func leaderRow(user *models.User) models.TeamMember {
	name := user.Name
	if strings.TrimSpace(name) == "" {
		name = user.Email
	}
	return models.TeamMember{
		Name:     name,
		USN:      user.USN,
		Phone:    user.Phone,
		IsLeader: true,
	}
}
