package scheduling

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	appointmentRepo "bookable/database/repository/appointment"
	"bookable/models"
	"bookable/utils"
)

// busyPadding widens the fetch window to absorb time-zone shift errors when
// mapping appointments onto calendar dates.
const busyPadding = 24 * time.Hour

// BusyTimeAggregator merges internally stored appointments with busy periods
// from every registered calendar integration.
type BusyTimeAggregator struct {
	Appointments appointmentRepo.AppointmentRepository
	Providers    *ProviderRegistry
	// Timeout bounds each provider fetch; a timed-out provider counts as
	// failed and is skipped.
	Timeout time.Duration
}

type providerResult struct {
	kind    ProviderKind
	periods []models.Period
	err     error
}

// GetBusyTimes returns every blocker overlapping [start, end). The result is
// a multiset of potentially overlapping periods; it is neither sorted nor
// merged. A failing external provider is logged and skipped, never fatal.
func (a *BusyTimeAggregator) GetBusyTimes(ctx context.Context, start, end time.Time) ([]models.Period, error) {
	logger := utils.GetLogger()
	paddedStart := start.Add(-busyPadding)
	paddedEnd := end.Add(busyPadding)

	appts, err := a.Appointments.FindNonDeclined(ctx, paddedStart, paddedEnd)
	if err != nil {
		return nil, err
	}
	declinedIDs, err := a.Appointments.FindDeclinedIDs(ctx, paddedStart, paddedEnd)
	if err != nil {
		return nil, err
	}
	declined := make(map[string]bool, len(declinedIDs))
	for _, id := range declinedIDs {
		declined[id] = true
	}

	busy := make([]models.Period, 0, len(appts))
	for _, appt := range appts {
		busy = append(busy, appt.Period())
	}

	// Fan out to every provider; one slow integration must not serialize
	// behind another.
	providers := a.Providers.All()
	results := make(chan providerResult, len(providers))
	var wg sync.WaitGroup
	for _, p := range providers {
		wg.Add(1)
		go func(p BusyTimeProvider) {
			defer wg.Done()
			fetchCtx, cancel := context.WithTimeout(ctx, a.timeout())
			defer cancel()
			periods, err := p.GetBusyTimes(fetchCtx, paddedStart, paddedEnd)
			results <- providerResult{kind: p.Kind(), periods: periods, err: err}
		}(p)
	}
	wg.Wait()
	close(results)

	for res := range results {
		if res.err != nil {
			// Fail open: availability over perfect accuracy.
			logger.Warn("busy-time provider failed, skipping its data",
				zap.String("provider", string(res.kind)), zap.Error(res.err))
			continue
		}
		for _, p := range res.periods {
			// A mirrored event whose UID matches a declined appointment is
			// time this system itself freed; do not re-block it.
			if p.UID != "" && declined[p.UID] {
				continue
			}
			busy = append(busy, p)
		}
	}

	return busy, nil
}

func (a *BusyTimeAggregator) timeout() time.Duration {
	if a.Timeout <= 0 {
		return 5 * time.Second
	}
	return a.Timeout
}
