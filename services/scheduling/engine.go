package scheduling

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	optionRepo "bookable/database/repository/option"
	scheduleRepo "bookable/database/repository/schedule"
	"bookable/models"
	"bookable/utils"
)

// BusyTimeSource supplies the merged busy periods for a window. Implemented
// by BusyTimeAggregator.
type BusyTimeSource interface {
	GetBusyTimes(ctx context.Context, start, end time.Time) ([]models.Period, error)
}

// DateRange overrides the default availability window.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// SchedulingEngine computes bookable start times for a requested duration.
type SchedulingEngine interface {
	// GetAvailableTimes returns the valid start instants within [start, end],
	// ordered chronologically for the basic generator and score-ranked when
	// smart scheduling is enabled.
	GetAvailableTimes(ctx context.Context, start, end time.Time, durationMinutes int, constraints models.BookingConstraints) ([]time.Time, error)
	// ComputeAvailability is GetAvailableTimes over the default booking
	// window with the configured constraints.
	ComputeAvailability(ctx context.Context, durationMinutes int, override *DateRange) ([]time.Time, error)
}

// DefaultSchedulingEngine is the production implementation.
type DefaultSchedulingEngine struct {
	Schedule           scheduleRepo.ScheduleRepository
	Busy               BusyTimeSource
	Options            optionRepo.OptionCatalog
	Constraints        models.BookingConstraints
	AdvanceBookingDays int
	Location           *time.Location
	// Clock is overridable for tests; nil means time.Now.
	Clock func() time.Time
}

func (e *DefaultSchedulingEngine) now() time.Time {
	if e.Clock != nil {
		return e.Clock()
	}
	return time.Now()
}

func (e *DefaultSchedulingEngine) GetAvailableTimes(ctx context.Context, start, end time.Time, durationMinutes int, constraints models.BookingConstraints) ([]time.Time, error) {
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %d", durationMinutes)
	}
	if constraints.SlotGranularityMinutes <= 0 && len(constraints.CustomSlotTimes) == 0 {
		return nil, fmt.Errorf("%w: no slot granularity or custom slot times configured", ErrConfigurationMissing)
	}

	schedule, err := e.Schedule.GetSchedule(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve schedule: %w", err)
	}

	busy, err := e.Busy.GetBusyTimes(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to gather busy time: %w", err)
	}

	req := SlotRequest{
		Start:    start,
		End:      end,
		Duration: durationMinutes,
		Now:      e.now(),
		Location: e.Location,
	}

	var candidates []models.SlotCandidate
	if constraints.SmartSchedule.Enabled {
		candidates = GenerateSmartSlots(req, schedule, busy, constraints, e.maximizeDuration(ctx, constraints))
	} else {
		candidates = GenerateSlots(req, schedule, busy, constraints)
	}

	times := make([]time.Time, len(candidates))
	for i, c := range candidates {
		times[i] = c.Start
	}
	return times, nil
}

func (e *DefaultSchedulingEngine) ComputeAvailability(ctx context.Context, durationMinutes int, override *DateRange) ([]time.Time, error) {
	start, end := e.defaultWindow()
	if override != nil {
		start, end = override.Start, override.End
	}
	return e.GetAvailableTimes(ctx, start, end, durationMinutes, e.Constraints)
}

func (e *DefaultSchedulingEngine) defaultWindow() (time.Time, time.Time) {
	days := e.AdvanceBookingDays
	if days <= 0 {
		days = 14
	}
	now := e.now()
	return now, now.AddDate(0, 0, days)
}

// maximizeDuration resolves MaximizeForOption to its service duration. A
// missing or unresolvable option disables packing scoring rather than
// failing the request.
func (e *DefaultSchedulingEngine) maximizeDuration(ctx context.Context, constraints models.BookingConstraints) int {
	optionID := constraints.SmartSchedule.MaximizeForOption
	if optionID == "" || e.Options == nil {
		return 0
	}
	opt, err := e.Options.GetOption(ctx, optionID)
	if err != nil {
		utils.GetLogger().Warn("failed to resolve maximize-for option, skipping packing score",
			zap.String("optionID", optionID), zap.Error(err))
		return 0
	}
	return opt.Duration
}
