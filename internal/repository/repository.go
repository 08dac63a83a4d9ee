package repository

import (
	"context"
	"errors"
	"time"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
)

var (
	// ErrEmailTaken is returned when a user with the same email already exists.
	ErrEmailTaken = errors.New("user repository: email already registered")
	// ErrNumericIDConflict is returned when every numeric id attempt collided.
	ErrNumericIDConflict = errors.New("user repository: numeric id allocation kept colliding")
	// ErrEventFull is returned when the capacity guard rejects an admission.
	ErrEventFull = errors.New("registration repository: event is full")
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// CreateWithNumericID allocates the next numeric id and inserts the user
	// within a single transaction, retrying when the id collides.
	CreateWithNumericID(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uint64) (*models.User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Update saves every column of the user
	Update(ctx context.Context, user *models.User) error

	// Count returns the number of users
	Count(ctx context.Context) (int64, error)
}

// EventRepository defines the interface for event data access
type EventRepository interface {
	// Create creates a new event
	Create(ctx context.Context, event *models.Event) error

	// FindByID finds an event by ID
	FindByID(ctx context.Context, id uint64) (*models.Event, error)

	// List retrieves events with filtering, sorting and pagination
	List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error)

	// ListAll retrieves every event ordered by ID
	ListAll(ctx context.Context) ([]models.Event, error)

	// Update updates an event
	Update(ctx context.Context, event *models.Event) error

	// UpdateImageURL sets the image URL of an event
	UpdateImageURL(ctx context.Context, id uint64, url string) error

	// Delete deletes an event with its registrations and team members
	Delete(ctx context.Context, id uint64) error
}

// IDGenerator produces the registration id inside the admission transaction.
type IDGenerator interface {
	Generate(tx *gorm.DB, eventID, userID uint64) (string, error)
}

// RegistrationRepository defines the interface for registration data access
type RegistrationRepository interface {
	// Exists reports whether the user already registered for the event
	Exists(ctx context.Context, userID, eventID uint64) (bool, error)

	// Admit reserves a seat, assigns the registration id and stores the
	// registration with its team members in one transaction
	Admit(ctx context.Context, reg *models.Registration, members []models.TeamMember, ids IDGenerator) error

	// FindByRegistrationID finds a registration by its human readable id
	FindByRegistrationID(ctx context.Context, registrationID string, preload ...string) (*models.Registration, error)

	// ListByUser lists the registrations of a user with events and team members
	ListByUser(ctx context.Context, userID uint64) ([]models.Registration, error)

	// UpdatePaymentStatus changes the payment status of a registration
	UpdatePaymentStatus(ctx context.Context, registrationID string, status models.PaymentStatus) error

	// Delete removes a registration, its team members and its seat
	Delete(ctx context.Context, registrationID string) error

	// Search lists denormalized registration rows for the back-office
	Search(ctx context.Context, filter RegistrationFilter) ([]RegistrationRow, int64, error)

	// ListForAnalytics loads the columns needed for in-process aggregation
	ListForAnalytics(ctx context.Context) ([]AnalyticsRow, error)

	// ListForExport loads registrations with user, event and team members
	ListForExport(ctx context.Context, filter ExportFilter) ([]models.Registration, error)

	// CountByStatus counts registrations of an event per payment status
	CountByStatus(ctx context.Context, eventID uint64) (map[models.PaymentStatus]int64, error)
}

// EventFilter holds filtering options for listing events
type EventFilter struct {
	Search      string
	Category    *models.EventCategory
	IsTeamEvent *bool
	SortBy      EventSortKey
	Desc        bool
	Page        int
	PageSize    int
}

// RegistrationFilter holds filtering options for searching registrations
type RegistrationFilter struct {
	Search        string
	PaymentStatus *models.PaymentStatus
	EventID       *uint64
	Category      *models.EventCategory
	SortBy        RegistrationSortKey
	Desc          bool
	Page          int
	PageSize      int
}

// ExportFilter narrows the registrations included in an export
type ExportFilter struct {
	PaymentStatus *models.PaymentStatus
	EventID       *uint64
}

// RegistrationRow is a registration joined with its user and event
type RegistrationRow struct {
	ID             uint64
	RegistrationID string
	PaymentStatus  models.PaymentStatus
	TeamSize       int
	CreatedAt      time.Time
	UpdatedAt      time.Time

	UserID         uint64
	UserNumericID  uint32
	UserName       string
	UserEmail      string
	UserUSN        string
	UserPhone      string
	UserCollege    string
	UserDepartment string

	EventID       uint64
	EventTitle    string
	EventCategory models.EventCategory
	EventFee      int64
	EventIsTeam   bool
}

// AnalyticsRow is the slice of a registration the aggregator needs
type AnalyticsRow struct {
	EventID       uint64
	EventTitle    string
	Category      models.EventCategory
	Fee           int64
	IsTeamEvent   bool
	TeamSize      int
	PaymentStatus models.PaymentStatus
	CreatedAt     time.Time
}
