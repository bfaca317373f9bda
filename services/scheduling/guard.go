package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	appointmentRepo "bookable/database/repository/appointment"
	optionRepo "bookable/database/repository/option"
	"bookable/models"
	"bookable/utils"
)

// BookingService creates appointments, re-validating the requested instant
// against freshly recomputed availability unless forced.
type BookingService interface {
	CreateAppointment(ctx context.Context, req models.AppointmentRequest, force bool) (*models.Appointment, error)
}

// DefaultBookingService is the production implementation.
type DefaultBookingService struct {
	Engine         SchedulingEngine
	Appointments   appointmentRepo.AppointmentRepository
	Options        optionRepo.OptionCatalog
	Reservations   ReservationStore
	Constraints    models.BookingConstraints
	Location       *time.Location
	ReservationTTL time.Duration
	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

func (s *DefaultBookingService) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// CreateAppointment validates and commits a booking. With force=false the
// requested instant must appear in the recomputed availability of its day
// and a slot reservation must be won before the record is inserted; either
// failing surfaces ErrTimeNotAvailable. force=true bypasses both
// (administrative override).
func (s *DefaultBookingService) CreateAppointment(ctx context.Context, req models.AppointmentRequest, force bool) (*models.Appointment, error) {
	logger := utils.GetLogger()

	duration, err := s.resolveDuration(ctx, req)
	if err != nil {
		return nil, err
	}

	if !force {
		if req.DateTime.Before(s.now()) {
			return nil, ErrTimeNotAvailable
		}

		dayStart := startOfDay(req.DateTime, s.Location)
		times, err := s.Engine.GetAvailableTimes(ctx, dayStart, dayStart, duration, s.Constraints)
		if err != nil {
			return nil, err
		}
		if !containsInstant(times, req.DateTime) {
			return nil, ErrTimeNotAvailable
		}

		ok, err := s.Reservations.Reserve(ctx, req.DateTime, s.reservationTTL())
		if err != nil {
			return nil, fmt.Errorf("failed to reserve slot: %w", err)
		}
		if !ok {
			// Another request holds this instant right now.
			return nil, ErrTimeNotAvailable
		}
	}

	appt := &models.Appointment{
		OptionID:      req.OptionID,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		DateTime:      req.DateTime,
		TotalDuration: duration,
		Status:        models.AppointmentPending,
	}
	if err := s.Appointments.Insert(ctx, appt); err != nil {
		if !force {
			if relErr := s.Reservations.Release(ctx, req.DateTime); relErr != nil {
				logger.Warn("failed to release slot reservation after insert error", zap.Error(relErr))
			}
		}
		return nil, fmt.Errorf("failed to insert appointment: %w", err)
	}

	logger.Info("appointment committed",
		zap.String("id", appt.ID),
		zap.Time("dateTime", appt.DateTime),
		zap.Int("duration", appt.TotalDuration),
		zap.Bool("forced", force))
	return appt, nil
}

func (s *DefaultBookingService) resolveDuration(ctx context.Context, req models.AppointmentRequest) (int, error) {
	if req.OptionID != "" && s.Options != nil {
		opt, err := s.Options.GetOption(ctx, req.OptionID)
		if err != nil {
			return 0, fmt.Errorf("failed to resolve option %q: %w", req.OptionID, err)
		}
		return opt.Duration, nil
	}
	if req.DurationMinutes <= 0 {
		return 0, fmt.Errorf("appointment duration must be positive, got %d", req.DurationMinutes)
	}
	return req.DurationMinutes, nil
}

func (s *DefaultBookingService) reservationTTL() time.Duration {
	if s.ReservationTTL <= 0 {
		return 30 * time.Second
	}
	return s.ReservationTTL
}

func containsInstant(times []time.Time, target time.Time) bool {
	for _, t := range times {
		if t.Equal(target) {
			return true
		}
	}
	return false
}
