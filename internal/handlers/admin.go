package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/constants"
	"github.com/yukikurage/fest-registration-api/internal/dto"
	apierrors "github.com/yukikurage/fest-registration-api/internal/errors"
	"github.com/yukikurage/fest-registration-api/internal/export"
	"github.com/yukikurage/fest-registration-api/internal/models"
	"github.com/yukikurage/fest-registration-api/internal/services"
	"github.com/yukikurage/fest-registration-api/internal/utils"
)

// AdminHandler serves the back-office registration endpoints.
type AdminHandler struct {
	Responder
	adminService   *services.AdminQueryService
	paymentService *services.PaymentService
	exportService  *services.ExportService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(
	adminService *services.AdminQueryService,
	paymentService *services.PaymentService,
	exportService *services.ExportService,
	responder Responder,
) *AdminHandler {
	return &AdminHandler{
		Responder:      responder,
		adminService:   adminService,
		paymentService: paymentService,
		exportService:  exportService,
	}
}

// ListRegistrations searches, filters, sorts and pages registrations.
func (h *AdminHandler) ListRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	eventID, ok := optionalUintQuery(c, "event_id")
	if !ok {
		return
	}

	params := utils.GetPaginationParams(c)
	page, err := h.adminService.ListRegistrations(c.Request.Context(), p, services.RegistrationQuery{
		Search:        c.Query("search"),
		PaymentStatus: c.Query("payment_status"),
		EventID:       eventID,
		Category:      c.Query("category"),
		SortBy:        c.Query("sort_by"),
		Order:         c.Query("order"),
		Page:          params.Page,
		PageSize:      params.Limit,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	rows := make([]dto.RegistrationRowDTO, len(page.Rows))
	for i, row := range page.Rows {
		rows[i] = dto.ToRegistrationRowDTO(row)
	}
	c.JSON(http.StatusOK, dto.RegistrationListResponse{
		Registrations: rows,
		Page:          page.Page,
		PageSize:      page.PageSize,
		TotalCount:    page.TotalCount,
		TotalPages:    page.TotalPages,
	})
}

// UpdatePaymentStatus sets the payment status of a registration.
func (h *AdminHandler) UpdatePaymentStatus(c *gin.Context) {
	type UpdatePaymentRequest struct {
		PaymentStatus string `json:"payment_status" binding:"required"`
	}

	p, ok := principal(c)
	if !ok {
		return
	}

	var req UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	reg, err := h.paymentService.UpdatePaymentStatus(c.Request.Context(), p,
		c.Param("registration_id"), models.PaymentStatus(req.PaymentStatus))
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info(c.Request.Context(), "payment status updated",
		"registration_id", reg.RegistrationID,
		"payment_status", reg.PaymentStatus,
		"admin_id", p.UserID,
	)
	c.JSON(http.StatusOK, dto.ToRegistrationDTO(*reg))
}

// DeleteRegistration removes a registration and frees its seat.
func (h *AdminHandler) DeleteRegistration(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	registrationID := c.Param("registration_id")
	if err := h.paymentService.DeleteRegistration(c.Request.Context(), p, registrationID); err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info(c.Request.Context(), "registration deleted", "registration_id", registrationID, "admin_id", p.UserID)
	c.JSON(http.StatusOK, gin.H{"message": "Registration deleted successfully"})
}

// StatusCounts returns the paid, unpaid and refunded counts of an event.
func (h *AdminHandler) StatusCounts(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	counts, err := h.paymentService.StatusCounts(c.Request.Context(), p, id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToStatusCountsDTO(*counts))
}

func exportFilter(c *gin.Context) (services.ExportFilter, bool) {
	eventID, ok := optionalUintQuery(c, "event_id")
	if !ok {
		return services.ExportFilter{}, false
	}
	return services.ExportFilter{PaymentStatus: c.Query("payment_status"), EventID: eventID}, true
}

// ExportRegistrations streams an xlsx workbook of registrations.
func (h *AdminHandler) ExportRegistrations(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := exportFilter(c)
	if !ok {
		return
	}

	data, err := h.exportService.Registrations(c.Request.Context(), p, filter)
	if err != nil {
		h.respondError(c, err)
		return
	}

	filename := fmt.Sprintf("registrations-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, data)
}

// PublishExport stores the workbook in object storage and returns a
// time-limited download link.
func (h *AdminHandler) PublishExport(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}
	filter, ok := exportFilter(c)
	if !ok {
		return
	}

	link, err := h.exportService.Publish(c.Request.Context(), p, filter, constants.ExportLinkTTL)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ExportLinkDTO{URL: link.URL, ExpiresAt: link.ExpiresAt})
}
