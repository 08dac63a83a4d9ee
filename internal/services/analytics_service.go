package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
)

const trendDateLayout = "2006-01-02"

// AnalyticsService aggregates registrations in process on every request.
type AnalyticsService struct {
	registrationRepo repository.RegistrationRepository
	eventRepo        repository.EventRepository
	userRepo         repository.UserRepository
	loc              *time.Location
	now              func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService. Trend days are
// calendar days in loc; a nil loc means UTC.
func NewAnalyticsService(
	registrationRepo repository.RegistrationRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	loc *time.Location,
) *AnalyticsService {
	if loc == nil {
		loc = time.UTC
	}
	return &AnalyticsService{
		registrationRepo: registrationRepo,
		eventRepo:        eventRepo,
		userRepo:         userRepo,
		loc:              loc,
		now:              time.Now,
	}
}

// CategoryTotal sums the registrations of one category.
type CategoryTotal struct {
	Category      models.EventCategory
	Registrations int
	Paid          int
	Unpaid        int
	Refunded      int
	Revenue       int64
}

// TrendPoint is the registration count of one calendar day.
type TrendPoint struct {
	Date  string
	Count int
}

// EventRank is one entry of the top events list.
type EventRank struct {
	EventID       uint64
	Title         string
	Category      models.EventCategory
	Registrations int
	Paid          int
	Revenue       int64
}

// Overview combines the headline numbers.
type Overview struct {
	Users         int64
	Events        int
	Registrations int
	Paid          int
	Unpaid        int
	Refunded      int
	Revenue       int64
	Categories    []CategoryTotal
}

// RegistrationRevenue is fee × team size for paid team registrations, the fee
// for paid individual ones and zero otherwise.
func RegistrationRevenue(fee int64, isTeamEvent bool, teamSize int, status models.PaymentStatus) int64 {
	if status != models.PaymentPaid {
		return 0
	}
	if isTeamEvent && teamSize > 1 {
		return fee * int64(teamSize)
	}
	return fee
}

func rowRevenue(row repository.AnalyticsRow) int64 {
	return RegistrationRevenue(row.Fee, row.IsTeamEvent, row.TeamSize, row.PaymentStatus)
}

// CategoryTotals returns one entry per category, including empty ones.
func (s *AnalyticsService) CategoryTotals(ctx context.Context, actor *Principal) ([]CategoryTotal, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	rows, err := s.registrationRepo.ListForAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	return categoryTotals(rows), nil
}

// Trend counts registrations per day over the last days days, today included.
func (s *AnalyticsService) Trend(ctx context.Context, actor *Principal, days int) ([]TrendPoint, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if days == 0 {
		days = constants.DefaultTrendDays
	}
	if days < 1 || days > constants.MaxTrendDays {
		return nil, invalidField("days", fmt.Sprintf("must be between 1 and %d", constants.MaxTrendDays))
	}

	rows, err := s.registrationRepo.ListForAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	points := make([]TrendPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1).Format(trendDateLayout)
		points[i] = TrendPoint{Date: day}
		index[day] = i
	}

	for _, row := range rows {
		if i, ok := index[row.CreatedAt.In(s.loc).Format(trendDateLayout)]; ok {
			points[i].Count++
		}
	}
	return points, nil
}

// TopEvents ranks events by registrations, ties broken by lower event id.
func (s *AnalyticsService) TopEvents(ctx context.Context, actor *Principal, k int) ([]EventRank, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if k == 0 {
		k = constants.DefaultTopEvents
	}
	if k < 1 || k > constants.MaxTopEvents {
		return nil, invalidField("limit", fmt.Sprintf("must be between 1 and %d", constants.MaxTopEvents))
	}

	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	rows, err := s.registrationRepo.ListForAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}

	ranks := make(map[uint64]*EventRank, len(events))
	for _, e := range events {
		ranks[e.ID] = &EventRank{EventID: e.ID, Title: e.Title, Category: e.Category}
	}
	for _, row := range rows {
		rank, ok := ranks[row.EventID]
		if !ok {
			rank = &EventRank{EventID: row.EventID, Title: row.EventTitle, Category: row.Category}
			ranks[row.EventID] = rank
		}
		rank.Registrations++
		if row.PaymentStatus == models.PaymentPaid {
			rank.Paid++
		}
		rank.Revenue += rowRevenue(row)
	}

	out := make([]EventRank, 0, len(ranks))
	for _, rank := range ranks {
		out = append(out, *rank)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Registrations != out[j].Registrations {
			return out[i].Registrations > out[j].Registrations
		}
		return out[i].EventID < out[j].EventID
	})

	if len(out) > k {
		out = out[:k]
	}
	return out, nil
}

// Overview returns totals across all categories and the user count.
func (s *AnalyticsService) Overview(ctx context.Context, actor *Principal) (*Overview, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}

	rows, err := s.registrationRepo.ListForAnalytics(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load registrations: %w", err)
	}
	events, err := s.eventRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	overview := &Overview{
		Users:      users,
		Events:     len(events),
		Categories: categoryTotals(rows),
	}
	for _, c := range overview.Categories {
		overview.Registrations += c.Registrations
		overview.Paid += c.Paid
		overview.Unpaid += c.Unpaid
		overview.Refunded += c.Refunded
		overview.Revenue += c.Revenue
	}
	return overview, nil
}

func categoryTotals(rows []repository.AnalyticsRow) []CategoryTotal {
	totals := make([]CategoryTotal, len(models.EventCategories))
	index := make(map[models.EventCategory]int, len(models.EventCategories))
	for i, c := range models.EventCategories {
		totals[i].Category = c
		index[c] = i
	}

	for _, row := range rows {
		i, ok := index[row.Category]
		if !ok {
			continue
		}
		t := &totals[i]
		t.Registrations++
		switch row.PaymentStatus {
		case models.PaymentPaid:
			t.Paid++
		case models.PaymentUnpaid:
			t.Unpaid++
		case models.PaymentRefunded:
			t.Refunded++
		}
		t.Revenue += rowRevenue(row)
	}
	return totals
}
