package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"github.com/yukikurage/fest-registration-api/internal/utils"
)

// AdminQueryService backs the searchable back-office listings.
type AdminQueryService struct {
	registrationRepo repository.RegistrationRepository
	events           *EventService
}

// NewAdminQueryService creates a new AdminQueryService.
func NewAdminQueryService(registrationRepo repository.RegistrationRepository, events *EventService) *AdminQueryService {
	return &AdminQueryService{registrationRepo: registrationRepo, events: events}
}

// RegistrationQuery selects a page of registrations.
type RegistrationQuery struct {
	Search        string
	PaymentStatus string
	EventID       *uint64
	Category      string
	SortBy        string
	Order         string
	Page          int
	PageSize      int
}

// RegistrationPage is one page of denormalized registration rows.
type RegistrationPage struct {
	Rows       []repository.RegistrationRow
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
}

// ListRegistrations searches registrations joined with users and events.
// Equal inputs over unchanged data return equal pages.
func (s *AdminQueryService) ListRegistrations(ctx context.Context, actor *Principal, query RegistrationQuery) (*RegistrationPage, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	params := utils.NewPaginationParams(query.Page, query.PageSize)
	filter := repository.RegistrationFilter{
		Search:   utils.SearchPattern(query.Search),
		EventID:  query.EventID,
		Page:     params.Page,
		PageSize: params.Limit,
	}

	verr := &ValidationError{}
	if query.PaymentStatus != "" {
		status := models.PaymentStatus(strings.ToUpper(query.PaymentStatus))
		if !status.Valid() {
			verr.add("payment_status", "must be one of PAID, UNPAID, REFUNDED")
		}
		filter.PaymentStatus = &status
	}
	if query.Category != "" {
		category := models.EventCategory(strings.ToUpper(query.Category))
		if !category.Valid() {
			verr.add("category", "unknown category")
		}
		filter.Category = &category
	}

	filter.SortBy = repository.RegistrationSortCreatedAt
	if query.SortBy != "" {
		key, ok := repository.ParseRegistrationSortKey(query.SortBy)
		if !ok {
			verr.add("sort_by", "unsupported sort key")
		}
		filter.SortBy = key
	}

	// Newest first unless another column or direction is requested.
	desc, ok := parseOrder(query.Order, filter.SortBy == repository.RegistrationSortCreatedAt)
	if !ok {
		verr.add("order", "must be asc or desc")
	}
	filter.Desc = desc

	if err := verr.orNil(); err != nil {
		return nil, err
	}

	rows, total, err := s.registrationRepo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search registrations: %w", err)
	}

	return &RegistrationPage{
		Rows:       rows,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: utils.TotalPages(total, params.Limit),
	}, nil
}

// ListEvents is the admin event listing; it accepts the same query as the
// public listing.
func (s *AdminQueryService) ListEvents(ctx context.Context, actor *Principal, query EventQuery) (*EventPage, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	return s.events.List(ctx, query)
}
