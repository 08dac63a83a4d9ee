package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/fest-registration-api/internal/middleware"
	"github.com/yukikurage/fest-registration-api/internal/models"
)

// Set bundles the HTTP handlers mounted by RegisterRoutes.
type Set struct {
	Auth          *AuthHandler
	Profile       *ProfileHandler
	Events        *EventHandler
	Registrations *RegistrationHandler
	Admin         *AdminHandler
	Analytics     *AnalyticsHandler
}

// RegisterRoutes mounts the API. The engine must already carry the sessions
// middleware.
func RegisterRoutes(r *gin.Engine, h *Set) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Festival Registration API is running",
		})
	})

	api := r.Group("/api")
	{
		// Auth routes (public)
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", middleware.RequireAuth(), h.Auth.GetCurrentUser)
		}

		// Event routes (public)
		events := api.Group("/events")
		{
			events.GET("", h.Events.ListEvents)
			events.GET("/:id", h.Events.GetEvent)
		}

		// Profile routes (protected)
		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("", h.Profile.GetProfile)
			profile.PUT("", h.Profile.UpdateProfile)
		}

		// Registration routes (protected)
		registrations := api.Group("/registrations")
		registrations.Use(middleware.RequireAuth())
		{
			registrations.POST("", h.Registrations.Register)
			registrations.GET("", h.Registrations.ListMyRegistrations)
			registrations.GET("/:registration_id", h.Registrations.GetMyRegistration)
		}

		// Admin routes
		admin := api.Group("/admin")
		admin.Use(middleware.RequireAuth(), middleware.RequireRole(models.RoleAdmin))
		{
			admin.GET("/events", h.Events.AdminListEvents)
			admin.POST("/events", h.Events.CreateEvent)
			admin.PUT("/events/:id", h.Events.UpdateEvent)
			admin.DELETE("/events/:id", h.Events.DeleteEvent)
			admin.POST("/events/:id/image", h.Events.UploadEventImage)
			admin.GET("/events/:id/payment-summary", h.Admin.StatusCounts)

			admin.GET("/registrations", h.Admin.ListRegistrations)
			admin.PATCH("/registrations/:registration_id/payment", h.Admin.UpdatePaymentStatus)
			admin.DELETE("/registrations/:registration_id", h.Admin.DeleteRegistration)

			admin.GET("/exports/registrations.xlsx", h.Admin.ExportRegistrations)
			admin.POST("/exports/registrations", h.Admin.PublishExport)

			admin.GET("/analytics/categories", h.Analytics.Categories)
			admin.GET("/analytics/trend", h.Analytics.Trend)
			admin.GET("/analytics/top-events", h.Analytics.TopEvents)
			admin.GET("/analytics/overview", h.Analytics.Overview)
		}
	}
}
