package scheduling

import (
	"context"
	"fmt"
	"sync"
	"time"

	appointmentRepo "bookable/database/repository/appointment"
	optionRepo "bookable/database/repository/option"
	"bookable/models"
)

// testDay is a fixed Monday; tests pin "now" well before it so no candidate
// is cut off unless a test wants that.
var testDay = time.Date(2026, 9, 7, 0, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2026, 9, 7, h, m, 0, 0, time.UTC)
}

func onDay(day time.Time, h, m int) time.Time {
	return time.Date(day.Year(), day.Month(), day.Day(), h, m, 0, 0, time.UTC)
}

func period(start, end time.Time) models.Period {
	return models.Period{Start: start, End: end}
}

func scheduleFor(day time.Time, shifts ...models.Shift) models.Schedule {
	return models.Schedule{models.DateKey(day, time.UTC): shifts}
}

func shift(start, end string) models.Shift {
	return models.Shift{Start: start, End: end}
}

func starts(slots []models.SlotCandidate) []time.Time {
	out := make([]time.Time, len(slots))
	for i, s := range slots {
		out[i] = s.Start
	}
	return out
}

// fakeScheduleRepo returns a fixed schedule regardless of range.
type fakeScheduleRepo struct {
	schedule models.Schedule
	err      error
}

func (f *fakeScheduleRepo) GetSchedule(_ context.Context, _, _ time.Time) (models.Schedule, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.schedule, nil
}

// fakeBusySource returns fixed busy periods.
type fakeBusySource struct {
	periods []models.Period
	err     error
}

func (f *fakeBusySource) GetBusyTimes(_ context.Context, _, _ time.Time) ([]models.Period, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.periods, nil
}

// fakeProvider is a scripted BusyTimeProvider; delay simulates a slow
// integration and respects context cancellation.
type fakeProvider struct {
	kind    ProviderKind
	periods []models.Period
	err     error
	delay   time.Duration
}

func (f *fakeProvider) Kind() ProviderKind { return f.kind }

func (f *fakeProvider) GetBusyTimes(ctx context.Context, _, _ time.Time) ([]models.Period, error) {
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(f.delay):
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.periods, nil
}

// fakeAppointmentRepo is an in-memory AppointmentRepository.
type fakeAppointmentRepo struct {
	mu        sync.Mutex
	appts     []models.Appointment
	findErr   error
	insertErr error
	nextID    int
}

func (f *fakeAppointmentRepo) FindNonDeclined(_ context.Context, start, end time.Time) ([]models.Appointment, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Appointment
	for _, a := range f.appts {
		if a.IsDeclined() {
			continue
		}
		if a.DateTime.Before(end) && a.EndTime().After(start) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) FindDeclinedIDs(_ context.Context, start, end time.Time) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, a := range f.appts {
		if a.IsDeclined() && a.DateTime.Before(end) && a.EndTime().After(start) {
			out = append(out, a.ID)
		}
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Insert(_ context.Context, appt *models.Appointment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	if appt.ID == "" {
		appt.ID = fmt.Sprintf("appt-%d", f.nextID)
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	f.appts = append(f.appts, *appt)
	return nil
}

func (f *fakeAppointmentRepo) FindByID(_ context.Context, id string) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.appts {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, appointmentRepo.ErrAppointmentNotFound
}

func (f *fakeAppointmentRepo) DeclineStalePending(_ context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for i := range f.appts {
		if f.appts[i].Status == models.AppointmentPending && f.appts[i].CreatedAt.Before(cutoff) {
			f.appts[i].Status = models.AppointmentDeclined
			n++
		}
	}
	return n, nil
}

// fakeOptionCatalog resolves options from a fixed map.
type fakeOptionCatalog struct {
	options map[string]models.Option
}

func (f *fakeOptionCatalog) GetOption(_ context.Context, id string) (*models.Option, error) {
	opt, ok := f.options[id]
	if !ok {
		return nil, optionRepo.ErrOptionNotFound
	}
	return &opt, nil
}

// fakeReservationStore grants or denies holds and records calls.
type fakeReservationStore struct {
	mu       sync.Mutex
	denyAll  bool
	held     map[int64]bool
	reserves int
	releases int
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{held: make(map[int64]bool)}
}

func (f *fakeReservationStore) Reserve(_ context.Context, slot time.Time, _ time.Duration) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reserves++
	if f.denyAll || f.held[slot.UnixNano()] {
		return false, nil
	}
	f.held[slot.UnixNano()] = true
	return true, nil
}

func (f *fakeReservationStore) Release(_ context.Context, slot time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	delete(f.held, slot.UnixNano())
	return nil
}
