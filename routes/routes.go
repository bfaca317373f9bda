package routes

import (
	"github.com/gin-gonic/gin"

	"bookable/handlers"
)

// RegisterAvailabilityRoutes registers availability endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, h *handlers.AvailabilityHandler) {
	api := r.Group("/api/availability")
	{
		api.GET("", h.GetAvailability)
	}
}

// RegisterAppointmentRoutes registers appointment endpoints.
func RegisterAppointmentRoutes(r *gin.Engine, h *handlers.AppointmentHandler) {
	api := r.Group("/api/appointments")
	{
		api.POST("", h.CreateAppointment)
		api.GET("/:id", h.GetAppointment)
	}
}

// RegisterHealthRoutes registers the dependency health endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/health", handlers.GetHealth)
}
