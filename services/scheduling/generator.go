package scheduling

import (
	"sort"
	"time"

	"bookable/models"
)

// SlotRequest describes one slot computation over a date range. Start and
// End bound the calendar dates considered; Now cuts off candidates already
// in the past.
type SlotRequest struct {
	Start    time.Time
	End      time.Time
	Duration int // minutes
	Now      time.Time
	Location *time.Location
}

func (r SlotRequest) duration() time.Duration {
	return time.Duration(r.Duration) * time.Minute
}

// GenerateSlots produces candidate start times at a fixed granularity inside
// working-hour windows, rejecting any that collide with a busy period plus
// the required buffers. Output is ascending by start time, unscored.
// Overlapping shifts are evaluated independently; duplicates are acceptable.
func GenerateSlots(req SlotRequest, schedule models.Schedule, busy []models.Period, constraints models.BookingConstraints) []models.SlotCandidate {
	var out []models.SlotCandidate
	dur := req.duration()

	forEachShift(req, schedule, func(day, shiftStart, shiftEnd time.Time) {
		for _, st := range gridStarts(day, shiftStart, shiftEnd, dur, constraints, req.Location) {
			if st.Before(req.Now) {
				continue
			}
			if conflictsAny(st, st.Add(dur), busy, constraints, false) {
				continue
			}
			out = append(out, models.SlotCandidate{Start: st})
		}
	})

	sort.Slice(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// forEachShift walks every shift of every scheduled date in the request
// range. Dates absent from the schedule are skipped; malformed shifts are
// ignored.
func forEachShift(req SlotRequest, schedule models.Schedule, fn func(day, shiftStart, shiftEnd time.Time)) {
	first := startOfDay(req.Start, req.Location)
	last := startOfDay(req.End, req.Location)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		shifts, ok := schedule[models.DateKey(d, req.Location)]
		if !ok {
			continue
		}
		for _, shift := range shifts {
			shiftStart, shiftEnd, err := shift.Resolve(d, req.Location)
			if err != nil {
				continue
			}
			fn(d, shiftStart, shiftEnd)
		}
	}
}

// gridStarts returns the raw candidate starts for one shift: either the
// configured fixed allow-list intersected with the shift, or the granularity
// grid walked from the shift start. A shift shorter than the duration yields
// nothing.
func gridStarts(day, shiftStart, shiftEnd time.Time, dur time.Duration, constraints models.BookingConstraints, loc *time.Location) []time.Time {
	var starts []time.Time

	if len(constraints.CustomSlotTimes) > 0 {
		for _, clock := range constraints.CustomSlotTimes {
			st, err := models.ClockTime(day, clock, loc)
			if err != nil {
				continue
			}
			if st.Before(shiftStart) || st.Add(dur).After(shiftEnd) {
				continue
			}
			starts = append(starts, st)
		}
		return starts
	}

	step := time.Duration(constraints.SlotGranularityMinutes) * time.Minute
	if step <= 0 {
		return nil
	}
	for st := shiftStart; !st.Add(dur).After(shiftEnd); st = st.Add(step) {
		starts = append(starts, st)
	}
	return starts
}

// conflictsAny reports whether [start, end) plus the configured buffers
// intersects any busy period. With skipBreak, the buffer is waived against a
// period the slot butts directly against, trading break time for contiguity.
func conflictsAny(start, end time.Time, busy []models.Period, constraints models.BookingConstraints, skipBreak bool) bool {
	bufBefore := time.Duration(constraints.BufferBeforeMinutes) * time.Minute
	bufAfter := time.Duration(constraints.BufferAfterMinutes) * time.Minute
	for _, p := range busy {
		if skipBreak && (start.Equal(p.End) || end.Equal(p.Start)) {
			continue
		}
		if p.Overlaps(start, end, bufBefore, bufAfter) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
