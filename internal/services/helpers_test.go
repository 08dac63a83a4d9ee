package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"gorm.io/gorm"
)

type serviceEnv struct {
	ctx context.Context
	db  *gorm.DB

	userRepo         repository.UserRepository
	eventRepo        repository.EventRepository
	registrationRepo repository.RegistrationRepository

	auth          *AuthService
	profiles      *ProfileService
	events        *EventService
	registrations *RegistrationService
	payments      *PaymentService
	analytics     *AnalyticsService
	admin         *AdminQueryService
	exports       *ExportService

	adminPrincipal *Principal
	seq            int
}

func setupServiceEnv(t *testing.T) *serviceEnv {
	t.Helper()

	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(database.AllModels()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	userRepo := repository.NewUserRepository(db, nil)
	eventRepo := repository.NewEventRepository(db)
	registrationRepo := repository.NewRegistrationRepository(db)
	events := NewEventService(eventRepo, nil)

	return &serviceEnv{
		ctx:              context.Background(),
		db:               db,
		userRepo:         userRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		auth:             NewAuthService(userRepo, []string{"admin@fest.test"}),
		profiles:         NewProfileService(userRepo),
		events:           events,
		registrations:    NewRegistrationService(userRepo, eventRepo, registrationRepo, identity.NewRegistrationIDGenerator(nil)),
		payments:         NewPaymentService(registrationRepo, eventRepo),
		analytics:        NewAnalyticsService(registrationRepo, eventRepo, userRepo, nil),
		admin:            NewAdminQueryService(registrationRepo, events),
		exports:          NewExportService(registrationRepo, nil),
		adminPrincipal:   &Principal{UserID: 1_000_000, Role: models.RoleAdmin},
	}
}

// createUser stores a user whose profile is complete unless incomplete is set.
func (e *serviceEnv) createUser(t *testing.T, name string, incomplete bool) (*models.User, *Principal) {
	t.Helper()
	e.seq++

	user := &models.User{
		Email:        fmt.Sprintf("%s%d@fest.test", name, e.seq),
		PasswordHash: "x",
		Role:         models.RoleUser,
		Name:         name,
	}
	if !incomplete {
		user.Department = "CSE"
		user.College = "Institute"
		user.Phone = "9876543210"
		user.USN = fmt.Sprintf("1IN20CS%03d", e.seq)
	}
	require.NoError(t, e.userRepo.CreateWithNumericID(e.ctx, user))
	return user, &Principal{UserID: user.ID, Role: user.Role}
}

func (e *serviceEnv) createEvent(t *testing.T, input EventInput) *models.Event {
	t.Helper()
	if input.Title == "" {
		input.Title = "Event"
	}
	if input.Category == "" {
		input.Category = models.CategoryTechnical
	}
	event, err := e.events.Create(e.ctx, e.adminPrincipal, input)
	require.NoError(t, err)
	return event
}

func (e *serviceEnv) register(t *testing.T, p *Principal, eventID uint64, members ...TeamMemberInput) *models.Registration {
	t.Helper()
	reg, err := e.registrations.Register(e.ctx, p, RegisterInput{EventID: eventID, Members: members})
	require.NoError(t, err)
	return reg
}

func teamOf(n int) []TeamMemberInput {
	out := make([]TeamMemberInput, n)
	for i := range out {
		out[i] = TeamMemberInput{
			Name:  fmt.Sprintf("Member %d", i+1),
			USN:   fmt.Sprintf("1IN20EC%03d", i+1),
			Phone: fmt.Sprintf("90000000%02d", i+1),
		}
	}
	return out
}
