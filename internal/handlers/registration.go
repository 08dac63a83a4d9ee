package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/auth"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

// RegistrationHandler serves participant registrations.
type RegistrationHandler struct {
	Responder
	registrationService *services.RegistrationService
	continuation        *auth.Continuation
}

// NewRegistrationHandler creates a new RegistrationHandler.
func NewRegistrationHandler(registrationService *services.RegistrationService, continuation *auth.Continuation, responder Responder) *RegistrationHandler {
	return &RegistrationHandler{
		Responder:           responder,
		registrationService: registrationService,
		continuation:        continuation,
	}
}

// Register admits the caller into an event.
func (h *RegistrationHandler) Register(c *gin.Context) {
	type MemberRequest struct {
		Name  string `json:"name" binding:"max=255"`
		USN   string `json:"usn" binding:"max=20"`
		Phone string `json:"phone" binding:"max=20"`
	}
	type RegisterRequest struct {
		EventID uint64          `json:"event_id" binding:"required"`
		Members []MemberRequest `json:"members" binding:"max=50,dive"`
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	members := make([]services.TeamMemberInput, len(req.Members))
	for i, m := range req.Members {
		members[i] = services.TeamMemberInput{Name: m.Name, USN: m.USN, Phone: m.Phone}
	}

	reg, err := h.registrationService.Register(c.Request.Context(), p, services.RegisterInput{
		EventID: req.EventID,
		Members: members,
	})
	if err != nil {
		var incomplete *services.ProfileIncompleteError
		if errors.As(err, &incomplete) {
			h.respondProfileIncomplete(c, p.UserID, incomplete)
			return
		}
		h.respondError(c, err)
		return
	}

	h.log.Info(c.Request.Context(), "registration created",
		"registration_id", reg.RegistrationID,
		"event_id", reg.EventID,
		"user_id", reg.UserID,
	)
	c.JSON(http.StatusCreated, dto.ToRegistrationDTO(*reg))
}

// respondProfileIncomplete hands the client a signed token to resume the
// registration once the profile is complete.
func (h *RegistrationHandler) respondProfileIncomplete(c *gin.Context, userID uint64, incomplete *services.ProfileIncompleteError) {
	details := gin.H{
		"event_id":      incomplete.EventID,
		"is_team_event": incomplete.IsTeamEvent,
	}
	if h.continuation != nil {
		token, err := h.continuation.Issue(userID, incomplete.EventID, incomplete.IsTeamEvent)
		if err != nil {
			h.respondError(c, err)
			return
		}
		details["continuation"] = token
	}
	apierrors.Conflict(c, apierrors.ErrCodeProfileIncomplete, "Complete your profile first", details)
}

// ListMyRegistrations returns the caller's registrations.
func (h *RegistrationHandler) ListMyRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	regs, err := h.registrationService.ListMine(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"registrations": dto.ToRegistrationDTOs(regs)})
}

// GetMyRegistration returns one of the caller's registrations.
func (h *RegistrationHandler) GetMyRegistration(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	reg, err := h.registrationService.GetMine(c.Request.Context(), p, c.Param("registration_id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRegistrationDTO(*reg))
}
