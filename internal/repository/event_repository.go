package repository

import (
	"context"

	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/utils"
	"gorm.io/gorm"
)

// GormEventRepository is a GORM implementation of EventRepository
type GormEventRepository struct {
	db *gorm.DB
}

// NewEventRepository creates a new EventRepository
func NewEventRepository(db *gorm.DB) EventRepository {
	return &GormEventRepository{db: db}
}

// Create creates a new event
func (r *GormEventRepository) Create(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Create(event).Error
}

// FindByID finds an event by ID
func (r *GormEventRepository) FindByID(ctx context.Context, id uint64) (*models.Event, error) {
	var event models.Event
	if err := r.db.WithContext(ctx).First(&event, id).Error; err != nil {
		return nil, err
	}
	return &event, nil
}

// List retrieves events with filtering, sorting and pagination
func (r *GormEventRepository) List(ctx context.Context, filter EventFilter) ([]models.Event, int64, error) {
	var events []models.Event

	order, err := orderBy(filter.SortBy, filter.Desc, "events.id")
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.Event{}).
		Scopes(database.ContainsFold(filter.Search, "events.title", "events.location"))

	if filter.Category != nil {
		query = query.Where("events.category = ?", *filter.Category)
	}
	if filter.IsTeamEvent != nil {
		query = query.Where("events.is_team_event = ?", *filter.IsTeamEvent)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Order(order)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Find(&events).Error; err != nil {
		return nil, 0, err
	}

	return events, total, nil
}

// ListAll retrieves every event ordered by ID
func (r *GormEventRepository) ListAll(ctx context.Context) ([]models.Event, error) {
	var events []models.Event
	err := r.db.WithContext(ctx).Order("id ASC").Find(&events).Error
	return events, err
}

// Update updates an event
func (r *GormEventRepository) Update(ctx context.Context, event *models.Event) error {
	return r.db.WithContext(ctx).Omit("Registrations", "registered_count").Save(event).Error
}

// UpdateImageURL sets the image URL of an event
func (r *GormEventRepository) UpdateImageURL(ctx context.Context, id uint64, url string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.Select("id").First(&event, id).Error; err != nil {
			return err
		}
		return tx.Model(&event).Update("image_url", url).Error
	})
}

// Delete deletes an event with its registrations and team members
func (r *GormEventRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		registrationIDs := tx.Model(&models.Registration{}).Select("id").Where("event_id = ?", id)
		if err := tx.Where("registration_id IN (?)", registrationIDs).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		if err := tx.Where("event_id = ?", id).Delete(&models.Registration{}).Error; err != nil {
			return err
		}

		result := tx.Delete(&models.Event{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
