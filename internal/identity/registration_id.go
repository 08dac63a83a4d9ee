package identity

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"gorm.io/gorm"
)

// PlaceholderDepartmentCode is used for department events until a
// department code table is configured.
const PlaceholderDepartmentCode = "DEP"

// DepartmentCodeResolver maps an event department to its registration id code.
type DepartmentCodeResolver interface {
	Code(department string) string
}

// DepartmentCodeFunc adapts a function to DepartmentCodeResolver.
type DepartmentCodeFunc func(department string) string

func (f DepartmentCodeFunc) Code(department string) string {
	return f(department)
}

// PlaceholderDepartments resolves every department to PlaceholderDepartmentCode.
var PlaceholderDepartments DepartmentCodeResolver = DepartmentCodeFunc(func(string) string {
	return PlaceholderDepartmentCode
})

// CategoryCode returns the code used for events without a department.
func CategoryCode(category models.EventCategory) string {
	switch category {
	case models.CategoryCultural:
		return "CUL"
	case models.CategoryLiterary:
		return "LIT"
	case models.CategoryFineArts:
		return "FA"
	default:
		return "CN"
	}
}

// DeptCode picks the department segment of a registration id.
func DeptCode(event *models.Event, resolver DepartmentCodeResolver) string {
	if dept := strings.TrimSpace(event.Department); dept != "" {
		if resolver == nil {
			resolver = PlaceholderDepartments
		}
		return resolver.Code(dept)
	}
	return CategoryCode(event.Category)
}

// FormatRegistrationID renders INS-{dept}-{event:02}-{user:05}. Values wider
// than the padding are kept in full.
func FormatRegistrationID(dept string, eventID uint64, userNumericID uint32) string {
	return fmt.Sprintf("%s-%s-%02d-%05d", constants.RegistrationIDPrefix, dept, eventID, userNumericID)
}

// RegistrationIDGenerator derives registration ids from stored users and events.
type RegistrationIDGenerator struct {
	resolver DepartmentCodeResolver
}

// NewRegistrationIDGenerator creates a generator. A nil resolver falls back to
// PlaceholderDepartments.
func NewRegistrationIDGenerator(resolver DepartmentCodeResolver) *RegistrationIDGenerator {
	if resolver == nil {
		resolver = PlaceholderDepartments
	}
	return &RegistrationIDGenerator{resolver: resolver}
}

// Generate loads the event and user through tx and formats their registration id.
func (g *RegistrationIDGenerator) Generate(tx *gorm.DB, eventID, userID uint64) (string, error) {
	var event models.Event
	if err := tx.Select("id", "category", "department").First(&event, eventID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: event %d", ErrNotFound, eventID)
		}
		return "", fmt.Errorf("failed to load event: %w", err)
	}

	var user models.User
	if err := tx.Select("id", "numeric_id").First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", fmt.Errorf("%w: user %d", ErrNotFound, userID)
		}
		return "", fmt.Errorf("failed to load user: %w", err)
	}

	return FormatRegistrationID(DeptCode(&event, g.resolver), event.ID, user.NumericID), nil
}
