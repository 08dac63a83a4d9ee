package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/repository"
	"github.com/yukikurage/fest-registration-api/internal/storage"
	"github.com/yukikurage/fest-registration-api/internal/utils"
	"gorm.io/gorm"
)

const eventImagePrefix = "events"

var eventImageTypes = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/gif":  "gif",
}

// EventService serves public event browsing and admin event management.
type EventService struct {
	eventRepo repository.EventRepository
	store     storage.ObjectStore
}

// NewEventService creates a new EventService. store may be nil when object
// storage is not configured; image uploads then fail with ErrStorageUnavailable.
func NewEventService(eventRepo repository.EventRepository, store storage.ObjectStore) *EventService {
	return &EventService{eventRepo: eventRepo, store: store}
}

// EventInput holds the admin-editable event fields.
type EventInput struct {
	Title       string
	Description string
	Category    models.EventCategory
	Department  string
	Date        *time.Time
	Time        string
	Location    string
	Capacity    int
	Fee         int64
	IsTeamEvent bool
	MinTeamSize int
	MaxTeamSize int
}

// EventQuery selects a page of events.
type EventQuery struct {
	Search      string
	Category    string
	IsTeamEvent *bool
	SortBy      string
	Order       string
	Page        int
	PageSize    int
}

// EventPage is one page of events.
type EventPage struct {
	Events     []models.Event
	Page       int
	PageSize   int
	TotalCount int64
	TotalPages int
}

// List returns events for public browsing.
func (s *EventService) List(ctx context.Context, query EventQuery) (*EventPage, error) {
	filter, params, err := buildEventFilter(query)
	if err != nil {
		return nil, err
	}

	events, total, err := s.eventRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return &EventPage{
		Events:     events,
		Page:       params.Page,
		PageSize:   params.Limit,
		TotalCount: total,
		TotalPages: utils.TotalPages(total, params.Limit),
	}, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id uint64) (*models.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to find event: %w", err)
	}
	return event, nil
}

// Create adds a new event.
func (s *EventService) Create(ctx context.Context, actor *Principal, input EventInput) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateEventInput(&input); err != nil {
		return nil, err
	}

	event := &models.Event{}
	applyEventInput(event, input)
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return event, nil
}

// Update replaces the editable fields of an event. Capacity may not drop
// below the number of seats already taken, and the team shape is frozen
// once anyone has registered.
func (s *EventService) Update(ctx context.Context, actor *Principal, id uint64, input EventInput) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateEventInput(&input); err != nil {
		return nil, err
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	if input.Capacity > 0 && input.Capacity < event.RegisteredCount {
		verr.add("capacity", fmt.Sprintf("must be at least the %d registrations already taken", event.RegisteredCount))
	}
	if event.RegisteredCount > 0 {
		const frozen = "cannot change while the event has registrations"
		if input.IsTeamEvent != event.IsTeamEvent {
			verr.add("is_team_event", frozen)
		}
		if input.MinTeamSize != event.MinTeamSize {
			verr.add("min_team_size", frozen)
		}
		if input.MaxTeamSize != event.MaxTeamSize {
			verr.add("max_team_size", frozen)
		}
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	applyEventInput(event, input)
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// Delete removes an event together with its registrations.
func (s *EventService) Delete(ctx context.Context, actor *Principal, id uint64) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return nil
}

// UploadImage validates the image bytes, stores them and links them to the event.
func (s *EventService) UploadImage(ctx context.Context, actor *Principal, id uint64, data []byte) (*models.Event, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	if len(data) == 0 {
		return nil, invalidField("image", "is empty")
	}
	if len(data) > constants.MaxEventImageBytes {
		return nil, invalidField("image", fmt.Sprintf("must not exceed %d bytes", constants.MaxEventImageBytes))
	}

	mimeType := normalizeMimeType(mimetype.Detect(data).String())
	ext, ok := eventImageTypes[mimeType]
	if !ok {
		return nil, invalidField("image", fmt.Sprintf("unsupported format %s", mimeType))
	}

	event, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	key := utils.GenerateObjectKey(fmt.Sprintf("%s/%d", eventImagePrefix, event.ID), ext)
	url, err := s.store.Put(ctx, key, mimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store image: %w", err)
	}

	if err := s.eventRepo.UpdateImageURL(ctx, event.ID, url); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to save image url: %w", err)
	}
	event.ImageURL = url
	return event, nil
}

func validateEventInput(input *EventInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Department = strings.TrimSpace(input.Department)

	verr := &ValidationError{}
	if input.Title == "" {
		verr.add("title", "is required")
	}
	if !input.Category.Valid() {
		verr.add("category", "must be one of CENTRALIZED, TECHNICAL, CULTURAL, FINEARTS, LITERARY")
	}
	if input.Capacity < 0 {
		verr.add("capacity", "must not be negative")
	}
	if input.Fee < 0 {
		verr.add("fee", "must not be negative")
	}
	if input.IsTeamEvent {
		if input.MinTeamSize < 1 {
			verr.add("min_team_size", "must be at least 1")
		}
		if input.MaxTeamSize < input.MinTeamSize {
			verr.add("max_team_size", "must not be below min_team_size")
		}
	} else {
		input.MinTeamSize, input.MaxTeamSize = 1, 1
	}
	return verr.orNil()
}

func applyEventInput(event *models.Event, input EventInput) {
	event.Title = input.Title
	event.Description = input.Description
	event.Category = input.Category
	event.Department = input.Department
	event.Date = input.Date
	event.Time = input.Time
	event.Location = input.Location
	event.Capacity = input.Capacity
	event.Fee = input.Fee
	event.IsTeamEvent = input.IsTeamEvent
	event.MinTeamSize = input.MinTeamSize
	event.MaxTeamSize = input.MaxTeamSize
}

func buildEventFilter(query EventQuery) (repository.EventFilter, utils.PaginationParams, error) {
	params := utils.NewPaginationParams(query.Page, query.PageSize)
	filter := repository.EventFilter{
		Search:      utils.SearchPattern(query.Search),
		IsTeamEvent: query.IsTeamEvent,
		Page:        params.Page,
		PageSize:    params.Limit,
	}

	verr := &ValidationError{}
	if query.Category != "" {
		category := models.EventCategory(strings.ToUpper(query.Category))
		if !category.Valid() {
			verr.add("category", "unknown category")
		}
		filter.Category = &category
	}

	filter.SortBy = repository.EventSortDate
	if query.SortBy != "" {
		key, ok := repository.ParseEventSortKey(query.SortBy)
		if !ok {
			verr.add("sort_by", "unsupported sort key")
		}
		filter.SortBy = key
	}

	desc, ok := parseOrder(query.Order, false)
	if !ok {
		verr.add("order", "must be asc or desc")
	}
	filter.Desc = desc

	return filter, params, verr.orNil()
}

// parseOrder accepts asc/desc in any case and falls back to def when empty.
func parseOrder(order string, def bool) (desc bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "":
		return def, true
	case "asc":
		return false, true
	case "desc":
		return true, true
	default:
		return false, false
	}
}

func normalizeMimeType(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if separator := strings.Index(normalized, ";"); separator >= 0 {
		normalized = strings.TrimSpace(normalized[:separator])
	}
	return normalized
}
