package repository

import (
	"errors"
	"fmt"
)

// ErrUnknownSortKey is returned when a filter carries a sort key outside the closed set
var ErrUnknownSortKey = errors.New("unknown sort key")

// EventSortKey names a column events can be listed by
type EventSortKey string

const (
	EventSortDate            EventSortKey = "date"
	EventSortTitle           EventSortKey = "title"
	EventSortFee             EventSortKey = "fee"
	EventSortCapacity        EventSortKey = "capacity"
	EventSortRegisteredCount EventSortKey = "registered_count"
	EventSortCreatedAt       EventSortKey = "created_at"
)

// ParseEventSortKey maps a query value onto an EventSortKey
func ParseEventSortKey(s string) (EventSortKey, bool) {
	key := EventSortKey(s)
	_, ok := key.Column()
	return key, ok
}

// Column returns the qualified column for the key. The empty key sorts by date.
func (k EventSortKey) Column() (string, bool) {
	switch k {
	case EventSortDate, "":
		return "events.date", true
	case EventSortTitle:
		return "events.title", true
	case EventSortFee:
		return "events.fee", true
	case EventSortCapacity:
		return "events.capacity", true
	case EventSortRegisteredCount:
		return "events.registered_count", true
	case EventSortCreatedAt:
		return "events.created_at", true
	default:
		return "", false
	}
}

// RegistrationSortKey names a column registrations can be searched by
type RegistrationSortKey string

const (
	RegistrationSortCreatedAt      RegistrationSortKey = "created_at"
	RegistrationSortRegistrationID RegistrationSortKey = "registration_id"
	RegistrationSortUserName       RegistrationSortKey = "user_name"
	RegistrationSortEventTitle     RegistrationSortKey = "event_title"
	RegistrationSortPaymentStatus  RegistrationSortKey = "payment_status"
	RegistrationSortTeamSize       RegistrationSortKey = "team_size"
)

// ParseRegistrationSortKey maps a query value onto a RegistrationSortKey
func ParseRegistrationSortKey(s string) (RegistrationSortKey, bool) {
	key := RegistrationSortKey(s)
	_, ok := key.Column()
	return key, ok
}

// Column returns the qualified column for the key. The empty key sorts by creation time.
func (k RegistrationSortKey) Column() (string, bool) {
	switch k {
	case RegistrationSortCreatedAt, "":
		return "registrations.created_at", true
	case RegistrationSortRegistrationID:
		return "registrations.registration_id", true
	case RegistrationSortUserName:
		return "users.name", true
	case RegistrationSortEventTitle:
		return "events.title", true
	case RegistrationSortPaymentStatus:
		return "registrations.payment_status", true
	case RegistrationSortTeamSize:
		return "registrations.team_size", true
	default:
		return "", false
	}
}

type sortKey interface {
	~string
	Column() (string, bool)
}

// orderBy renders an ORDER BY clause for a typed sort key. The tiebreaker
// keeps pages deterministic when sort values repeat.
func orderBy[K sortKey](key K, desc bool, tiebreaker string) (string, error) {
	column, ok := key.Column()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, string(key))
	}
	direction := "ASC"
	if desc {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s, %s %s", column, direction, tiebreaker, direction), nil
}
