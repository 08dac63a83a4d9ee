package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/logging"
	"github.com/yukikurage/fest-registration-api/internal/middleware"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

// Responder maps service errors onto API errors. Unexpected errors are logged
// and their text is only returned outside production.
type Responder struct {
	log           logging.Logger
	exposeDetails bool
}

// NewResponder creates a Responder.
func NewResponder(log logging.Logger, production bool) Responder {
	if log == nil {
		log = logging.Nop()
	}
	return Responder{log: log, exposeDetails: !production}
}

func (r Responder) respondError(c *gin.Context, err error) {
	var (
		verr    *services.ValidationError
		sizeErr *services.TeamSizeError
		teamErr *services.TeamMemberError
	)

	switch {
	case errors.As(err, &verr):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeValidation, "Validation failed", verr.Fields)
	case errors.As(err, &sizeErr):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeInvalidTeamSize,
			fmt.Sprintf("Team size must be between %d and %d", sizeErr.Min, sizeErr.Max),
			gin.H{"min": sizeErr.Min, "max": sizeErr.Max, "got": sizeErr.Got})
	case errors.As(err, &teamErr):
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeInvalidTeamMember, teamErr.Error(),
			gin.H{"index": teamErr.Index, "field": teamErr.Field})
	case errors.Is(err, services.ErrPasswordTooShort):
		apierrors.BadRequest(c, fmt.Sprintf("Password must be at least %d characters", constants.MinPasswordLength))
	case errors.Is(err, services.ErrInvalidEmail):
		apierrors.BadRequest(c, err.Error())
	case errors.Is(err, services.ErrUnauthenticated):
		apierrors.Unauthenticated(c, "")
	case errors.Is(err, services.ErrInvalidCredentials):
		apierrors.InvalidCredentials(c, err.Error())
	case errors.Is(err, services.ErrUnauthorized):
		apierrors.Unauthorized(c, err.Error())
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrEventNotFound),
		errors.Is(err, services.ErrRegistrationNotFound):
		apierrors.NotFound(c, err.Error())
	case errors.Is(err, services.ErrEmailTaken):
		apierrors.Conflict(c, apierrors.ErrCodeConflict, err.Error(), nil)
	case errors.Is(err, services.ErrDuplicateRegistration):
		apierrors.Conflict(c, apierrors.ErrCodeDuplicateRegistration, err.Error(), nil)
	case errors.Is(err, services.ErrEventFull):
		apierrors.Conflict(c, apierrors.ErrCodeEventFull, err.Error(), nil)
	case errors.Is(err, services.ErrProfileIncomplete):
		apierrors.Conflict(c, apierrors.ErrCodeProfileIncomplete, "Complete your profile first", nil)
	case errors.Is(err, services.ErrCapacityExceeded):
		r.log.Error(c.Request.Context(), "user id space exhausted", "error", err)
		apierrors.RespondWithError(c, http.StatusServiceUnavailable,
			apierrors.NewAPIError(apierrors.ErrCodeCapacityExceeded, "No more accounts can be created"))
	case errors.Is(err, services.ErrStorageUnavailable):
		apierrors.ServiceUnavailable(c, err.Error())
	default:
		r.log.Error(c.Request.Context(), "request failed",
			"error", err,
			"request_id", middleware.RequestIDFromContext(c),
			"path", c.FullPath(),
		)
		if r.exposeDetails {
			apierrors.InternalErrorWithDetails(c, "Internal server error", gin.H{"error": err.Error()})
			return
		}
		apierrors.InternalError(c, "")
	}
}

// principal returns the authenticated caller or writes a 401.
func principal(c *gin.Context) (*services.Principal, bool) {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		apierrors.Unauthenticated(c, "")
		return nil, false
	}
	return p, true
}

func parseIDParam(c *gin.Context, name string) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return id, true
}

// optionalUintQuery parses an optional positive integer query parameter.
func optionalUintQuery(c *gin.Context, name string) (*uint64, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return nil, false
	}
	return &v, true
}

func optionalIntQuery(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		apierrors.BadRequest(c, fmt.Sprintf("Invalid %s", name))
		return 0, false
	}
	return v, true
}
