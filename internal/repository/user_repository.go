package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/identity"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
)

// GormUserRepository is a GORM implementation of UserRepository
type GormUserRepository struct {
	db  *gorm.DB
	ids identity.NumericIDSource
}

// NewUserRepository creates a new UserRepository. A nil source is replaced by
// the allocator matching the database dialect.
func NewUserRepository(db *gorm.DB, ids identity.NumericIDSource) UserRepository {
	if ids == nil {
		ids = identity.SourceFor(db.Dialector.Name())
	}
	return &GormUserRepository{db: db, ids: ids}
}

// CreateWithNumericID allocates a numeric id and inserts the user atomically.
func (r *GormUserRepository) CreateWithNumericID(ctx context.Context, user *models.User) error {
	if user.PublicID == "" {
		user.PublicID = identity.NewPublicID()
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))

	var lastErr error
	for attempt := 0; attempt < constants.NumericIDMaxAttempts; attempt++ {
		user.ID = 0
		err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var taken int64
			if err := tx.Model(&models.User{}).Where("email = ?", user.Email).Count(&taken).Error; err != nil {
				return err
			}
			if taken > 0 {
				return ErrEmailTaken
			}

			numericID, err := r.ids.Next(tx)
			if err != nil {
				return err
			}
			user.NumericID = numericID

			return tx.Create(user).Error
		})
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("%w: %v", ErrNumericIDConflict, lastErr)
}

// FindByID finds a user by ID
func (r *GormUserRepository) FindByID(ctx context.Context, id uint64) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email
func (r *GormUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// Update saves the user, recomputing profile completeness
func (r *GormUserRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Registrations").Save(user).Error
}

// Count returns the number of users
func (r *GormUserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Count(&count).Error
	return count, err
}
