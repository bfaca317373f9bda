package models

import (
	"fmt"
	"time"
)

// Shift is a working window within one calendar day, expressed as "HH:MM"
// wall-clock times local to the configured time zone.
type Shift struct {
	Start string `bson:"start" json:"start"`
	End   string `bson:"end" json:"end"`
}

// DaySchedule is the ordered list of shifts for one calendar date. A date
// with no entry in the schedule map has zero availability.
type DaySchedule []Shift

// Schedule maps "2006-01-02" date keys to their day schedules.
type Schedule map[string]DaySchedule

// DateKey formats an instant as a schedule map key in the given location.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}

// Resolve materialises the shift's wall-clock bounds on the given day.
func (s Shift) Resolve(day time.Time, loc *time.Location) (time.Time, time.Time, error) {
	start, err := ClockTime(day, s.Start, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ClockTime(day, s.End, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("shift %s-%s ends before it starts", s.Start, s.End)
	}
	return start, end, nil
}

// ClockTime pins an "HH:MM" wall-clock time onto the date of day in loc.
func ClockTime(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	parsed, err := time.Parse("15:04", clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid clock time %q: %w", clock, err)
	}
	d := day.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
}
