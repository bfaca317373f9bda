package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	appointmentRepo "bookable/database/repository/appointment"
	"bookable/models"
	"bookable/services/scheduling"
	"bookable/utils"
)

// AppointmentHandler exposes appointment creation and lookup.
type AppointmentHandler struct {
	Booking      scheduling.BookingService
	Appointments appointmentRepo.AppointmentRepository
}

func NewAppointmentHandler(booking scheduling.BookingService, appointments appointmentRepo.AppointmentRepository) *AppointmentHandler {
	return &AppointmentHandler{Booking: booking, Appointments: appointments}
}

// CreateAppointment validates and commits a booking. `force=true` bypasses
// availability validation (administrative override).
func (h *AppointmentHandler) CreateAppointment(c *gin.Context) {
	var req models.AppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	force := c.Query("force") == "true"

	appt, err := h.Booking.CreateAppointment(c.Request.Context(), req, force)
	if err != nil {
		if errors.Is(err, scheduling.ErrTimeNotAvailable) {
			utils.JSONError(c, http.StatusConflict, "time not available", "the requested time is no longer bookable")
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to create appointment", err.Error())
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// GetAppointment returns one appointment by ID.
func (h *AppointmentHandler) GetAppointment(c *gin.Context) {
	appt, err := h.Appointments.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			utils.JSONError(c, http.StatusNotFound, "appointment not found", c.Param("id"))
			return
		}
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch appointment", err.Error())
		return
	}
	c.JSON(http.StatusOK, appt)
}
