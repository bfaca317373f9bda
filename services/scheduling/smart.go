package scheduling

import (
	"sort"
	"time"

	"bookable/models"
)

// Scoring weights. These encode preference tiers, not a calibrated formula:
// back-to-back placement dominates, fragmentation is penalized, packing for
// the flagship option and a tight day timeline act as tie-breakers.
const (
	backToBackBonus      = 4.0
	fragmentationPenalty = 2.0
	packingBonus         = 1.0
	noFollowingPenalty   = 1.0
)

// GenerateSmartSlots is the priority-aware variant of GenerateSlots. It may
// add candidates adjacent to busy-period boundaries, waive buffers for
// contiguous placements, and scores every candidate to prefer back-to-back
// scheduling and discourage unusably small gaps. Output is descending by
// score, ties ascending by start time.
//
// optionDuration carries the duration of the MaximizeForOption service in
// minutes; zero disables packing-efficiency scoring.
func GenerateSmartSlots(req SlotRequest, schedule models.Schedule, busy []models.Period, constraints models.BookingConstraints, optionDuration int) []models.SlotCandidate {
	dur := req.duration()
	opts := constraints.SmartSchedule
	seen := make(map[int64]bool)
	var out []models.SlotCandidate

	forEachShift(req, schedule, func(day, shiftStart, shiftEnd time.Time) {
		starts := gridStarts(day, shiftStart, shiftEnd, dur, constraints, req.Location)
		if opts.AllowSmartSlotStarts {
			starts = append(starts, boundaryStarts(busy, dur, constraints, opts.AllowSkipBreak)...)
		}
		for _, st := range starts {
			if st.Before(req.Now) {
				continue
			}
			if st.Before(shiftStart) || st.Add(dur).After(shiftEnd) {
				continue
			}
			if conflictsAny(st, st.Add(dur), busy, constraints, opts.AllowSkipBreak) {
				continue
			}
			if seen[st.UnixNano()] {
				continue
			}
			seen[st.UnixNano()] = true

			out = append(out, models.SlotCandidate{
				Start: st,
				Score: scoreSlot(st, dur, shiftEnd, busy, constraints, optionDuration, req.Location),
			})
		}
	})

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Start.Before(out[j].Start)
	})

	if opts.FilterLowPrioritySlots {
		out = dropLowestTier(out)
	}
	return out
}

// boundaryStarts generates candidates hugging busy-period edges: immediately
// after a busy period ends and immediately before one begins. These usually
// fall off the granularity grid, which is the point — they maximize usable
// back-to-back placements.
func boundaryStarts(busy []models.Period, dur time.Duration, constraints models.BookingConstraints, skipBreak bool) []time.Time {
	bufBefore := time.Duration(constraints.BufferBeforeMinutes) * time.Minute
	bufAfter := time.Duration(constraints.BufferAfterMinutes) * time.Minute

	var starts []time.Time
	for _, p := range busy {
		// One start once the trailing buffer clears, one ending just
		// before the leading buffer.
		starts = append(starts, p.End.Add(bufAfter), p.Start.Add(-bufBefore-dur))
		if skipBreak {
			starts = append(starts, p.End, p.Start.Add(-dur))
		}
	}
	return starts
}

func scoreSlot(st time.Time, dur time.Duration, shiftEnd time.Time, busy []models.Period, constraints models.BookingConstraints, optionDuration int, loc *time.Location) float64 {
	opts := constraints.SmartSchedule
	end := st.Add(dur)
	var score float64

	if opts.PreferBackToBack && adjacentToBusy(st, end, busy, constraints) {
		score += backToBackBonus
	}

	// A slot that leaves less than one bookable unit of free time behind it
	// fragments the shift.
	gap := trailingGap(end, shiftEnd, busy)
	if gap > 0 && gap < dur {
		score -= fragmentationPenalty
	}

	if optionDuration > 0 {
		optDur := time.Duration(optionDuration) * time.Minute
		optEnd := st.Add(optDur)
		if !optEnd.After(shiftEnd) {
			rem := trailingGap(optEnd, shiftEnd, busy)
			if rem == 0 || rem >= optDur {
				score += packingBonus
			}
		}
	}

	if opts.LowerPriorityIfNoFollowingBooking && !hasFollowingBooking(st, end, busy, loc) {
		score -= noFollowingPenalty
	}

	return score
}

// adjacentToBusy reports whether the slot sits back-to-back with a busy
// period, either touching it directly or separated exactly by the buffer.
func adjacentToBusy(st, end time.Time, busy []models.Period, constraints models.BookingConstraints) bool {
	bufBefore := time.Duration(constraints.BufferBeforeMinutes) * time.Minute
	bufAfter := time.Duration(constraints.BufferAfterMinutes) * time.Minute
	for _, p := range busy {
		if st.Equal(p.End) || st.Equal(p.End.Add(bufAfter)) {
			return true
		}
		if end.Equal(p.Start) || end.Equal(p.Start.Add(-bufBefore)) {
			return true
		}
	}
	return false
}

// trailingGap measures the free time between from and the next busy period
// start, capped at the shift end.
func trailingGap(from, shiftEnd time.Time, busy []models.Period) time.Duration {
	next := shiftEnd
	for _, p := range busy {
		if !p.Start.Before(from) && p.Start.Before(next) {
			next = p.Start
		}
	}
	if next.Before(from) {
		return 0
	}
	return next.Sub(from)
}

// hasFollowingBooking reports whether any busy period starts later the same
// day as the slot.
func hasFollowingBooking(st, end time.Time, busy []models.Period, loc *time.Location) bool {
	day := models.DateKey(st, loc)
	for _, p := range busy {
		if !p.Start.Before(end) && models.DateKey(p.Start, loc) == day {
			return true
		}
	}
	return false
}

// dropLowestTier removes the lowest-scoring tier entirely. When everything
// scored the same there is no low tier to drop.
func dropLowestTier(slots []models.SlotCandidate) []models.SlotCandidate {
	if len(slots) == 0 {
		return slots
	}
	lowest := slots[len(slots)-1].Score
	if slots[0].Score == lowest {
		return slots
	}
	kept := slots[:0]
	for _, s := range slots {
		if s.Score != lowest {
			kept = append(kept, s)
		}
	}
	return kept
}
