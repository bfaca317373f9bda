package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookable/models"
)

func basicRequest(duration int) SlotRequest {
	return SlotRequest{
		Start:    testDay,
		End:      testDay,
		Duration: duration,
		Now:      testDay.AddDate(0, 0, -7),
		Location: time.UTC,
	}
}

func TestGenerateSlots_SingleShiftNoBusyTime(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "17:00"))
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15}

	slots := GenerateSlots(basicRequest(30), schedule, nil, constraints)

	require.NotEmpty(t, slots)
	assert.Equal(t, at(9, 0), slots[0].Start)
	assert.Equal(t, at(16, 30), slots[len(slots)-1].Start)
	assert.Len(t, slots, 31)
}

func TestGenerateSlots_EmptySchedule(t *testing.T) {
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15}

	slots := GenerateSlots(basicRequest(30), models.Schedule{}, nil, constraints)

	assert.Empty(t, slots)
}

func TestGenerateSlots_ExactFitBusyBlock(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "12:00"))
	busy := []models.Period{period(at(9, 0), at(12, 0))}
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15}

	slots := GenerateSlots(basicRequest(30), schedule, busy, constraints)

	assert.Empty(t, slots)
}

func TestGenerateSlots_ShiftShorterThanDuration(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "09:20"))
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15}

	slots := GenerateSlots(basicRequest(30), schedule, nil, constraints)

	assert.Empty(t, slots)
}

func TestGenerateSlots_BuffersExtendBusyPeriods(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "13:00"))
	busy := []models.Period{period(at(10, 0), at(11, 0))}
	constraints := models.BookingConstraints{
		SlotGranularityMinutes: 30,
		BufferBeforeMinutes:    15,
		BufferAfterMinutes:     15,
	}

	slots := GenerateSlots(basicRequest(30), schedule, busy, constraints)

	// 09:30 would end at 10:00, inside the 15-minute lead buffer; the first
	// grid start clearing the trailing buffer is 11:30.
	assert.Equal(t, []time.Time{at(9, 0), at(11, 30), at(12, 0), at(12, 30)}, starts(slots))
}

func TestGenerateSlots_TouchingBusyBoundaryIsFree(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "12:00"))
	busy := []models.Period{period(at(10, 0), at(11, 0))}
	constraints := models.BookingConstraints{SlotGranularityMinutes: 30}

	slots := GenerateSlots(basicRequest(60), schedule, busy, constraints)

	// Without buffers an adjacent booking is not an overlap.
	assert.Equal(t, []time.Time{at(9, 0), at(11, 0)}, starts(slots))
}

func TestGenerateSlots_PastCandidatesCutOff(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "17:00"))
	constraints := models.BookingConstraints{SlotGranularityMinutes: 60}
	req := basicRequest(30)
	req.Now = at(12, 0)

	slots := GenerateSlots(req, schedule, nil, constraints)

	require.NotEmpty(t, slots)
	assert.Equal(t, at(12, 0), slots[0].Start)
	for _, s := range slots {
		assert.False(t, s.Start.Before(req.Now))
	}
}

func TestGenerateSlots_CustomSlotTimes(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "17:00"))
	constraints := models.BookingConstraints{
		SlotGranularityMinutes: 15,
		CustomSlotTimes:        []string{"10:00", "15:30", "20:00"},
	}

	slots := GenerateSlots(basicRequest(30), schedule, nil, constraints)

	// 20:00 falls outside the shift and is dropped; the grid is ignored.
	assert.Equal(t, []time.Time{at(10, 0), at(15, 30)}, starts(slots))
}

func TestGenerateSlots_MultiDayRange(t *testing.T) {
	nextDay := testDay.AddDate(0, 0, 1)
	schedule := models.Schedule{
		models.DateKey(testDay, time.UTC): {shift("09:00", "10:00")},
		models.DateKey(nextDay, time.UTC): {shift("14:00", "15:00")},
	}
	constraints := models.BookingConstraints{SlotGranularityMinutes: 30}
	req := basicRequest(30)
	req.End = nextDay

	slots := GenerateSlots(req, schedule, nil, constraints)

	assert.Equal(t, []time.Time{
		at(9, 0), at(9, 30),
		onDay(nextDay, 14, 0), onDay(nextDay, 14, 30),
	}, starts(slots))
}

func TestGenerateSlots_SlotsStayInsideShifts(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "12:00"), shift("13:00", "17:00"))
	busy := []models.Period{period(at(10, 0), at(10, 45)), period(at(14, 30), at(15, 0))}
	constraints := models.BookingConstraints{
		SlotGranularityMinutes: 15,
		BufferBeforeMinutes:    5,
		BufferAfterMinutes:     5,
	}
	dur := 30 * time.Minute

	slots := GenerateSlots(basicRequest(30), schedule, busy, constraints)

	require.NotEmpty(t, slots)
	for _, s := range slots {
		end := s.Start.Add(dur)
		inShift := (!s.Start.Before(at(9, 0)) && !end.After(at(12, 0))) ||
			(!s.Start.Before(at(13, 0)) && !end.After(at(17, 0)))
		assert.True(t, inShift, "slot %v escapes the schedule", s.Start)
		for _, p := range busy {
			assert.False(t, p.Overlaps(s.Start, end, 5*time.Minute, 5*time.Minute),
				"slot %v overlaps busy period %v", s.Start, p)
		}
	}
}

func TestGenerateSlots_Idempotent(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "17:00"))
	busy := []models.Period{period(at(11, 0), at(12, 30))}
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15, BufferAfterMinutes: 10}

	first := GenerateSlots(basicRequest(45), schedule, busy, constraints)
	second := GenerateSlots(basicRequest(45), schedule, busy, constraints)

	assert.Equal(t, first, second)
}

func TestGenerateSlots_AddingBusyPeriodOnlyRemovesSlots(t *testing.T) {
	schedule := scheduleFor(testDay, shift("09:00", "17:00"))
	busy := []models.Period{period(at(11, 0), at(12, 0))}
	constraints := models.BookingConstraints{SlotGranularityMinutes: 15}

	before := starts(GenerateSlots(basicRequest(30), schedule, busy, constraints))
	withExtra := append(busy, period(at(14, 0), at(15, 0)))
	after := starts(GenerateSlots(basicRequest(30), schedule, withExtra, constraints))

	// Every surviving slot existed before, in the same relative order.
	i := 0
	for _, s := range after {
		found := false
		for ; i < len(before); i++ {
			if before[i].Equal(s) {
				found = true
				i++
				break
			}
		}
		require.True(t, found, "slot %v appeared out of nowhere", s)
	}
	assert.Less(t, len(after), len(before))
}
