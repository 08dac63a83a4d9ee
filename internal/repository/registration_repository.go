package repository

import (
	"context"

	"github.com/yukikurage/fest-registration-api/internal/database"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const registrationRowColumns = `registrations.id, registrations.registration_id, registrations.payment_status,
registrations.team_size, registrations.created_at, registrations.updated_at,
users.id AS user_id, users.numeric_id AS user_numeric_id, users.name AS user_name, users.email AS user_email,
users.usn AS user_usn, users.phone AS user_phone, users.college AS user_college, users.department AS user_department,
events.id AS event_id, events.title AS event_title, events.category AS event_category, events.fee AS event_fee,
events.is_team_event AS event_is_team`

// GormRegistrationRepository is a GORM implementation of RegistrationRepository
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewRegistrationRepository creates a new RegistrationRepository
func NewRegistrationRepository(db *gorm.DB) RegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// Exists reports whether the user already registered for the event
func (r *GormRegistrationRepository) Exists(ctx context.Context, userID, eventID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Where("user_id = ? AND event_id = ?", userID, eventID).
		Count(&count).Error
	return count > 0, err
}

// Admit reserves a seat, assigns the registration id and stores the
// registration with its team members in one transaction
func (r *GormRegistrationRepository) Admit(ctx context.Context, reg *models.Registration, members []models.TeamMember, ids IDGenerator) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		seat := tx.Model(&models.Event{}).
			Where("id = ? AND (capacity = 0 OR registered_count < capacity)", reg.EventID).
			UpdateColumn("registered_count", gorm.Expr("registered_count + 1"))
		if seat.Error != nil {
			return seat.Error
		}
		if seat.RowsAffected == 0 {
			return ErrEventFull
		}

		registrationID, err := ids.Generate(tx, reg.EventID, reg.UserID)
		if err != nil {
			return err
		}
		reg.RegistrationID = registrationID

		if err := tx.Omit(clause.Associations).Create(reg).Error; err != nil {
			return err
		}

		for i := range members {
			members[i].RegistrationID = reg.ID
		}
		if len(members) > 0 {
			if err := tx.Create(&members).Error; err != nil {
				return err
			}
		}
		reg.TeamMembers = members
		return nil
	})
}

// FindByRegistrationID finds a registration by its human readable id
func (r *GormRegistrationRepository) FindByRegistrationID(ctx context.Context, registrationID string, preload ...string) (*models.Registration, error) {
	var reg models.Registration
	query := r.db.WithContext(ctx)

	for _, p := range preload {
		if p == "TeamMembers" {
			query = query.Preload(p, orderTeamMembers)
			continue
		}
		query = query.Preload(p)
	}

	if err := query.Where("registration_id = ?", registrationID).First(&reg).Error; err != nil {
		return nil, err
	}
	return &reg, nil
}

// ListByUser lists the registrations of a user with events and team members
func (r *GormRegistrationRepository) ListByUser(ctx context.Context, userID uint64) ([]models.Registration, error) {
	var regs []models.Registration
	err := r.db.WithContext(ctx).
		Preload("Event").
		Preload("TeamMembers", orderTeamMembers).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&regs).Error
	return regs, err
}

// UpdatePaymentStatus changes the payment status of a registration. Setting
// the current status again is not an error.
func (r *GormRegistrationRepository) UpdatePaymentStatus(ctx context.Context, registrationID string, status models.PaymentStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		if err := tx.Select("id").Where("registration_id = ?", registrationID).First(&reg).Error; err != nil {
			return err
		}
		return tx.Model(&reg).Update("payment_status", status).Error
	})
}

// Delete removes a registration, its team members and its seat
func (r *GormRegistrationRepository) Delete(ctx context.Context, registrationID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var reg models.Registration
		if err := tx.Select("id", "event_id").Where("registration_id = ?", registrationID).First(&reg).Error; err != nil {
			return err
		}

		if err := tx.Where("registration_id = ?", reg.ID).Delete(&models.TeamMember{}).Error; err != nil {
			return err
		}

		if err := tx.Delete(&models.Registration{}, reg.ID).Error; err != nil {
			return err
		}

		return tx.Model(&models.Event{}).
			Where("id = ? AND registered_count > 0", reg.EventID).
			UpdateColumn("registered_count", gorm.Expr("registered_count - 1")).Error
	})
}

// Search lists denormalized registration rows for the back-office
func (r *GormRegistrationRepository) Search(ctx context.Context, filter RegistrationFilter) ([]RegistrationRow, int64, error) {
	rows := []RegistrationRow{}

	order, err := orderBy(filter.SortBy, filter.Desc, "registrations.id")
	if err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Table("registrations").
		Joins("JOIN users ON users.id = registrations.user_id").
		Joins("JOIN events ON events.id = registrations.event_id").
		Scopes(database.ContainsFold(filter.Search,
			"registrations.registration_id", "users.name", "users.usn", "events.title"))

	if filter.PaymentStatus != nil {
		query = query.Where("registrations.payment_status = ?", *filter.PaymentStatus)
	}
	if filter.EventID != nil {
		query = query.Where("registrations.event_id = ?", *filter.EventID)
	}
	if filter.Category != nil {
		query = query.Where("events.category = ?", *filter.Category)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query.Select(registrationRowColumns).
		Order(order)
	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.NewPaginationParams(filter.Page, filter.PageSize)))
	}

	if err := listQuery.Scan(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

// ListForAnalytics loads the columns needed for in-process aggregation
func (r *GormRegistrationRepository) ListForAnalytics(ctx context.Context) ([]AnalyticsRow, error) {
	var rows []AnalyticsRow
	err := r.db.WithContext(ctx).Table("registrations").
		Select(`registrations.event_id, events.title AS event_title, events.category, events.fee,
events.is_team_event, registrations.team_size, registrations.payment_status, registrations.created_at`).
		Joins("JOIN events ON events.id = registrations.event_id").
		Order("registrations.id ASC").
		Scan(&rows).Error
	return rows, err
}

// ListForExport loads registrations with user, event and team members
func (r *GormRegistrationRepository) ListForExport(ctx context.Context, filter ExportFilter) ([]models.Registration, error) {
	var regs []models.Registration

	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Event").
		Preload("TeamMembers", orderTeamMembers)

	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.EventID != nil {
		query = query.Where("event_id = ?", *filter.EventID)
	}

	err := query.Order("event_id ASC, created_at ASC, id ASC").Find(&regs).Error
	return regs, err
}

// CountByStatus counts registrations of an event per payment status
func (r *GormRegistrationRepository) CountByStatus(ctx context.Context, eventID uint64) (map[models.PaymentStatus]int64, error) {
	var rows []struct {
		PaymentStatus models.PaymentStatus
		Count         int64
	}
	err := r.db.WithContext(ctx).Model(&models.Registration{}).
		Select("payment_status, COUNT(*) AS count").
		Where("event_id = ?", eventID).
		Group("payment_status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[models.PaymentStatus]int64{
		models.PaymentPaid:     0,
		models.PaymentUnpaid:   0,
		models.PaymentRefunded: 0,
	}
	for _, row := range rows {
		counts[row.PaymentStatus] = row.Count
	}
	return counts, nil
}

func orderTeamMembers(db *gorm.DB) *gorm.DB {
	return db.Order("is_leader DESC, id ASC")
}
