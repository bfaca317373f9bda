package scheduling

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookable/models"
)

// bookingFixture wires a real engine over the shared in-memory appointment
// repo, so the availability recompute inside CreateAppointment observes
// earlier inserts.
type bookingFixture struct {
	service      *DefaultBookingService
	appointments *fakeAppointmentRepo
	reservations *fakeReservationStore
}

func newBookingFixture(constraints models.BookingConstraints) *bookingFixture {
	appointments := &fakeAppointmentRepo{}
	reservations := newFakeReservationStore()
	clock := func() time.Time { return testDay.AddDate(0, 0, -7) }
	catalog := &fakeOptionCatalog{options: map[string]models.Option{
		"opt-haircut": {ID: "opt-haircut", Name: "Haircut", Duration: 45},
	}}

	engine := &DefaultSchedulingEngine{
		Schedule: &fakeScheduleRepo{schedule: scheduleFor(testDay, shift("09:00", "17:00"))},
		Busy: &BusyTimeAggregator{
			Appointments: appointments,
			Providers:    NewProviderRegistry(),
		},
		Options:     catalog,
		Constraints: constraints,
		Location:    time.UTC,
		Clock:       clock,
	}

	return &bookingFixture{
		service: &DefaultBookingService{
			Engine:       engine,
			Appointments: appointments,
			Options:      catalog,
			Reservations: reservations,
			Constraints:  constraints,
			Location:     time.UTC,
			Clock:        clock,
		},
		appointments: appointments,
		reservations: reservations,
	}
}

func hourlyConstraints() models.BookingConstraints {
	return models.BookingConstraints{SlotGranularityMinutes: 60}
}

func TestCreateAppointment_Success(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	req := models.AppointmentRequest{
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		DateTime:        at(14, 0),
		DurationMinutes: 60,
	}

	appt, err := fx.service.CreateAppointment(context.Background(), req, false)

	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Equal(t, models.AppointmentPending, appt.Status)
	assert.Equal(t, 60, appt.TotalDuration)
	assert.Equal(t, 1, fx.reservations.reserves)
}

func TestCreateAppointment_OptionResolvesDuration(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	req := models.AppointmentRequest{
		OptionID:      "opt-haircut",
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		DateTime:      at(14, 0),
	}

	appt, err := fx.service.CreateAppointment(context.Background(), req, false)

	require.NoError(t, err)
	assert.Equal(t, 45, appt.TotalDuration)
}

func TestCreateAppointment_UnknownOption(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	req := models.AppointmentRequest{OptionID: "opt-vanished", DateTime: at(14, 0)}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)

	assert.Error(t, err)
	assert.Empty(t, fx.appointments.appts)
}

func TestCreateAppointment_OffGridTimeRejected(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	req := models.AppointmentRequest{DateTime: at(14, 17), DurationMinutes: 60}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)

	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}

func TestCreateAppointment_PastInstantRejected(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	fx.service.Clock = func() time.Time { return at(15, 0) }
	req := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)

	assert.ErrorIs(t, err, ErrTimeNotAvailable)
	// Rejected before the engine or the reservation store are consulted.
	assert.Zero(t, fx.reservations.reserves)
}

func TestCreateAppointment_SecondRequestForSameInstantRejected(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	req := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)
	require.NoError(t, err)

	// The committed appointment now occupies 14:00; the recompute must see
	// it and reject the duplicate.
	_, err = fx.service.CreateAppointment(context.Background(), req, false)
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
	assert.Len(t, fx.appointments.appts, 1)
}

func TestCreateAppointment_ReservationLostRejected(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	fx.reservations.denyAll = true
	req := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)

	assert.ErrorIs(t, err, ErrTimeNotAvailable)
	assert.Empty(t, fx.appointments.appts)
}

func TestCreateAppointment_InsertFailureReleasesReservation(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	fx.appointments.insertErr = errors.New("write concern failed")
	req := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}

	_, err := fx.service.CreateAppointment(context.Background(), req, false)

	assert.Error(t, err)
	assert.Equal(t, 1, fx.reservations.releases)
}

func TestCreateAppointment_ForceBypassesValidation(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	// Off-grid and in the past; force commits it anyway.
	fx.service.Clock = func() time.Time { return at(15, 0) }
	req := models.AppointmentRequest{DateTime: at(14, 17), DurationMinutes: 60}

	appt, err := fx.service.CreateAppointment(context.Background(), req, true)

	require.NoError(t, err)
	assert.NotEmpty(t, appt.ID)
	assert.Zero(t, fx.reservations.reserves)
}

func TestCreateAppointment_ForcedBookingBlocksLaterRequests(t *testing.T) {
	fx := newBookingFixture(hourlyConstraints())
	forced := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}
	_, err := fx.service.CreateAppointment(context.Background(), forced, true)
	require.NoError(t, err)

	// Forced bookings skip validation but still count as busy time.
	regular := models.AppointmentRequest{DateTime: at(14, 0), DurationMinutes: 60}
	_, err = fx.service.CreateAppointment(context.Background(), regular, false)
	assert.ErrorIs(t, err, ErrTimeNotAvailable)
}
