package handlers

import (
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/services"
	"github.com/yukikurage/fest-registration-api/internal/utils"
)

// EventHandler serves public event browsing and admin event management.
type EventHandler struct {
	Responder
	eventService *services.EventService
	adminService *services.AdminQueryService
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(eventService *services.EventService, adminService *services.AdminQueryService, responder Responder) *EventHandler {
	return &EventHandler{
		Responder:    responder,
		eventService: eventService,
		adminService: adminService,
	}
}

type eventRequest struct {
	Title       string               `json:"title" binding:"required,max=255"`
	Description string               `json:"description"`
	Category    models.EventCategory `json:"category" binding:"required"`
	Department  string               `json:"department" binding:"max=100"`
	Date        *time.Time           `json:"date"`
	Time        string               `json:"time" binding:"max=50"`
	Location    string               `json:"location" binding:"max=255"`
	Capacity    int                  `json:"capacity"`
	Fee         int64                `json:"fee"`
	IsTeamEvent bool                 `json:"is_team_event"`
	MinTeamSize int                  `json:"min_team_size"`
	MaxTeamSize int                  `json:"max_team_size"`
}

func (r eventRequest) toInput() services.EventInput {
	return services.EventInput{
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Department:  r.Department,
		Date:        r.Date,
		Time:        r.Time,
		Location:    r.Location,
		Capacity:    r.Capacity,
		Fee:         r.Fee,
		IsTeamEvent: r.IsTeamEvent,
		MinTeamSize: r.MinTeamSize,
		MaxTeamSize: r.MaxTeamSize,
	}
}

// eventQuery reads the listing parameters shared by the public and admin lists.
func eventQuery(c *gin.Context) (services.EventQuery, bool) {
	params := utils.GetPaginationParams(c)
	query := services.EventQuery{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		SortBy:   c.Query("sort_by"),
		Order:    c.Query("order"),
		Page:     params.Page,
		PageSize: params.Limit,
	}
	if raw := c.Query("is_team_event"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			apierrors.BadRequest(c, "Invalid is_team_event")
			return query, false
		}
		query.IsTeamEvent = &v
	}
	return query, true
}

func eventListResponse(page *services.EventPage) dto.EventListResponse {
	return dto.EventListResponse{
		Events:     dto.ToEventDTOs(page.Events),
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalCount: page.TotalCount,
		TotalPages: page.TotalPages,
	}
}

// ListEvents returns a page of events for public browsing.
func (h *EventHandler) ListEvents(c *gin.Context) {
	query, ok := eventQuery(c)
	if !ok {
		return
	}

	page, err := h.eventService.List(c.Request.Context(), query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventListResponse(page))
}

// GetEvent returns a single event.
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	event, err := h.eventService.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// AdminListEvents is the back-office event listing.
func (h *EventHandler) AdminListEvents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	query, ok := eventQuery(c)
	if !ok {
		return
	}

	page, err := h.adminService.ListEvents(c.Request.Context(), p, query)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, eventListResponse(page))
}

// CreateEvent adds a new event.
func (h *EventHandler) CreateEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.Create(c.Request.Context(), p, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToEventDTO(*event))
}

// UpdateEvent replaces the editable fields of an event.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req eventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	event, err := h.eventService.Update(c.Request.Context(), p, id, req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}

// DeleteEvent removes an event together with its registrations.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.eventService.Delete(c.Request.Context(), p, id); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Event deleted successfully"})
}

// UploadEventImage stores the multipart "image" file as the event picture.
func (h *EventHandler) UploadEventImage(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, constants.MaxEventImageBytes+(1<<20))
	fileHeader, err := c.FormFile("image")
	if err != nil {
		apierrors.BadRequest(c, "Missing image file")
		return
	}
	if fileHeader.Size > constants.MaxEventImageBytes {
		apierrors.BadRequestWithDetails(c, apierrors.ErrCodeValidation, "Validation failed",
			gin.H{"image": "file too large"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Unreadable image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, constants.MaxEventImageBytes+1))
	if err != nil {
		apierrors.BadRequest(c, "Unreadable image file")
		return
	}

	event, err := h.eventService.UploadImage(c.Request.Context(), p, id, data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToEventDTO(*event))
}
