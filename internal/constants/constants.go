package constants

import "time"

// Session and context keys
const (
	SessionCookieName = "fest_session"
	ContextKeyUserID  = "user_id"
	ContextKeyRole    = "role"
)

// Pagination
const (
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Authentication
const (
	MinPasswordLength = 8
	ContinuationTTL   = 30 * time.Minute
)

// Identity allocation
const (
	FirstUserNumericID   = 10001
	MaxUserNumericID     = 99999
	NumericIDMaxAttempts = 5
	RegistrationIDPrefix = "INS"
)

// Uploads
const (
	MaxEventImageBytes = 5 << 20
	ExportLinkTTL      = 15 * time.Minute
)

// Analytics
const (
	DefaultTrendDays = 14
	MaxTrendDays     = 90
	DefaultTopEvents = 5
	MaxTopEvents     = 50
)
