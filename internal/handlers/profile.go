package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/auth"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

// ProfileHandler serves the caller's participant profile.
type ProfileHandler struct {
	Responder
	profileService *services.ProfileService
	continuation   *auth.Continuation
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService, continuation *auth.Continuation, responder Responder) *ProfileHandler {
	return &ProfileHandler{
		Responder:      responder,
		profileService: profileService,
		continuation:   continuation,
	}
}

// GetProfile returns the caller's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	user, err := h.profileService.Get(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

// UpdateProfile saves profile fields. When the request carries the token
// handed out by a rejected registration and the profile is now complete, the
// response names the event to resume.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	type UpdateProfileRequest struct {
		Name          *string `json:"name" binding:"omitempty,max=255"`
		Phone         *string `json:"phone" binding:"omitempty,max=20"`
		College       *string `json:"college" binding:"omitempty,max=255"`
		Department    *string `json:"department" binding:"omitempty,max=100"`
		USN           *string `json:"usn" binding:"omitempty,max=20"`
		Semester      *int    `json:"semester"`
		Accommodation *bool   `json:"accommodation"`
		Continuation  string  `json:"continuation"`
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.profileService.Update(c.Request.Context(), p, services.ProfileInput{
		Name:          req.Name,
		Phone:         req.Phone,
		College:       req.College,
		Department:    req.Department,
		USN:           req.USN,
		Semester:      req.Semester,
		Accommodation: req.Accommodation,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := dto.ProfileResponse{User: dto.ToUserDTO(*user)}
	if req.Continuation != "" && user.ProfileCompleted && h.continuation != nil {
		claims, err := h.continuation.Parse(req.Continuation, user.ID)
		if err != nil {
			h.log.Warn(c.Request.Context(), "ignoring continuation token", "user_id", user.ID, "error", err)
		} else {
			resp.Resume = &dto.ResumeDTO{EventID: claims.EventID, IsTeamEvent: claims.IsTeamEvent}
		}
	}

	c.JSON(http.StatusOK, resp)
}
