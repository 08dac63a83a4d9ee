// Package identity assigns the identifiers handed out to users and
// registrations: the five digit numeric id, the opaque public id and the
// human readable registration id.
package identity

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
)

const (
	// NumericIDSequence is created by the PostgreSQL migrations.
	NumericIDSequence = "user_numeric_id_seq"

	sqlStateSequenceExhausted = "2200H"
)

var (
	// ErrCapacityExceeded means every numeric id in the five digit range is taken.
	ErrCapacityExceeded = errors.New("numeric id space exhausted")
	// ErrNotFound is returned when a referenced user or event does not exist.
	ErrNotFound = errors.New("record not found")
)

// NumericIDSource hands out the next user numeric id. Next runs inside the
// transaction that inserts the user.
type NumericIDSource interface {
	Next(tx *gorm.DB) (uint32, error)
}

// SourceFor picks the allocator suited to a gorm dialect name.
func SourceFor(dialect string) NumericIDSource {
	if dialect == "postgres" {
		return SequenceSource{}
	}
	return MaxPlusOneSource{}
}

// SequenceSource draws ids from a bounded, non-cycling PostgreSQL sequence.
type SequenceSource struct{}

func (SequenceSource) Next(tx *gorm.DB) (uint32, error) {
	var next int64
	err := tx.Raw("SELECT nextval('" + NumericIDSequence + "')").Scan(&next).Error
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == sqlStateSequenceExhausted {
			return 0, ErrCapacityExceeded
		}
		return 0, fmt.Errorf("failed to read numeric id sequence: %w", err)
	}
	return checkRange(next)
}

// MaxPlusOneSource reads the current maximum inside the insert transaction.
// Concurrent writers that pick the same value are rejected by the unique
// index and retried by the caller.
type MaxPlusOneSource struct{}

func (MaxPlusOneSource) Next(tx *gorm.DB) (uint32, error) {
	var current int64
	err := tx.Model(&models.User{}).Select("COALESCE(MAX(numeric_id), 0)").Scan(&current).Error
	if err != nil {
		return 0, fmt.Errorf("failed to read max numeric id: %w", err)
	}
	if current < constants.FirstUserNumericID {
		return constants.FirstUserNumericID, nil
	}
	return checkRange(current + 1)
}

func checkRange(id int64) (uint32, error) {
	if id > constants.MaxUserNumericID {
		return 0, ErrCapacityExceeded
	}
	if id < constants.FirstUserNumericID {
		return 0, fmt.Errorf("numeric id %d below allowed range", id)
	}
	return uint32(id), nil
}

// NewPublicID returns a random opaque identifier.
func NewPublicID() string {
	return uuid.NewString()
}
