package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/yukikurage/fest-registration-api/internal/models"
)

var (
	ErrUnauthenticated       = errors.New("authentication required")
	ErrUnauthorized          = errors.New("administrator role required")
	ErrProfileIncomplete     = errors.New("profile incomplete")
	ErrEventNotFound         = errors.New("event not found")
	ErrRegistrationNotFound  = errors.New("registration not found")
	ErrDuplicateRegistration = errors.New("already registered for this event")
	ErrEventFull             = errors.New("event is full")
	ErrInvalidTeamSize       = errors.New("invalid team size")
	ErrInvalidTeamMember     = errors.New("invalid team member")
	ErrCapacityExceeded      = errors.New("user id capacity exceeded")
	ErrStorageUnavailable    = errors.New("object storage is not configured")
)

// Principal is the authenticated caller.
type Principal struct {
	UserID uint64
	Role   models.Role
}

// IsAdmin reports whether the caller holds the administrator role.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == models.RoleAdmin
}

// requireRole is the single authorization check used by every privileged operation.
func requireRole(p *Principal, role models.Role) error {
	if p == nil || p.UserID == 0 {
		return ErrUnauthenticated
	}
	if p.Role != role {
		return ErrUnauthorized
	}
	return nil
}

// ValidationError lists the offending fields and why they were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, reason string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	e.Fields[field] = reason
}

// orNil returns nil when no field was rejected.
func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

func invalidField(field, reason string) error {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

// TeamSizeError carries the allowed bounds. It matches ErrInvalidTeamSize.
type TeamSizeError struct {
	Min, Max, Got int
}

func (e *TeamSizeError) Error() string {
	return fmt.Sprintf("team size %d outside %d..%d", e.Got, e.Min, e.Max)
}

func (e *TeamSizeError) Is(target error) bool {
	return target == ErrInvalidTeamSize
}

// TeamMemberError names the member and field at fault. It matches ErrInvalidTeamMember.
type TeamMemberError struct {
	Index int
	Field string
}

func (e *TeamMemberError) Error() string {
	return fmt.Sprintf("team member %d: %s is required", e.Index, e.Field)
}

func (e *TeamMemberError) Is(target error) bool {
	return target == ErrInvalidTeamMember
}

// ProfileIncompleteError remembers the attempted registration so the caller
// can resume after completing the profile. It matches ErrProfileIncomplete.
type ProfileIncompleteError struct {
	EventID     uint64
	IsTeamEvent bool
}

func (e *ProfileIncompleteError) Error() string {
	return ErrProfileIncomplete.Error()
}

func (e *ProfileIncompleteError) Is(target error) bool {
	return target == ErrProfileIncomplete
}
