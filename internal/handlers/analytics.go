package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	"github.com/yukikurage/fest-registration-api/internal/services"
)

// AnalyticsHandler serves the dashboard aggregates.
type AnalyticsHandler struct {
	Responder
	analyticsService *services.AnalyticsService
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(analyticsService *services.AnalyticsService, responder Responder) *AnalyticsHandler {
	return &AnalyticsHandler{Responder: responder, analyticsService: analyticsService}
}

func (h *AnalyticsHandler) Categories(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	totals, err := h.analyticsService.CategoryTotals(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": dto.ToCategoryTotalDTOs(totals)})
}

func (h *AnalyticsHandler) Trend(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	days, ok := optionalIntQuery(c, "days")
	if !ok {
		return
	}

	points, err := h.analyticsService.Trend(c.Request.Context(), p, days)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"trend": dto.ToTrendPointDTOs(points)})
}

func (h *AnalyticsHandler) TopEvents(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	limit, ok := optionalIntQuery(c, "limit")
	if !ok {
		return
	}

	ranks, err := h.analyticsService.TopEvents(c.Request.Context(), p, limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": dto.ToEventRankDTOs(ranks)})
}

func (h *AnalyticsHandler) Overview(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	overview, err := h.analyticsService.Overview(c.Request.Context(), p)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOverviewDTO(*overview))
}
