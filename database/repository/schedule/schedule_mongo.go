package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"bookable/models"
)

// weeklyHoursDoc holds the recurring shifts for one weekday (0 = Sunday).
type weeklyHoursDoc struct {
	Weekday int            `bson:"weekday"`
	Shifts  []models.Shift `bson:"shifts"`
}

// overrideDoc replaces the weekly shifts for a single date. An empty shift
// list closes that date.
type overrideDoc struct {
	Date   string         `bson:"date"`
	Shifts []models.Shift `bson:"shifts"`
}

func (r *mongoScheduleRepo) GetSchedule(ctx context.Context, start, end time.Time) (models.Schedule, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	weekly, err := r.loadWeekly(ctx)
	if err != nil {
		return nil, err
	}
	overrides, err := r.loadOverrides(ctx, start, end)
	if err != nil {
		return nil, err
	}

	schedule := make(models.Schedule)
	first := startOfDay(start, r.loc)
	last := startOfDay(end, r.loc)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		key := models.DateKey(d, r.loc)
		shifts, overridden := overrides[key]
		if !overridden {
			shifts = weekly[int(d.Weekday())]
		}
		if len(shifts) == 0 {
			continue
		}
		schedule[key] = shifts
	}
	return schedule, nil
}

func (r *mongoScheduleRepo) loadWeekly(ctx context.Context) (map[int]models.DaySchedule, error) {
	cursor, err := r.hoursColl.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []weeklyHoursDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	weekly := make(map[int]models.DaySchedule, len(docs))
	for _, doc := range docs {
		weekly[doc.Weekday] = doc.Shifts
	}
	return weekly, nil
}

func (r *mongoScheduleRepo) loadOverrides(ctx context.Context, start, end time.Time) (map[string]models.DaySchedule, error) {
	filter := bson.M{"date": bson.M{
		"$gte": models.DateKey(start, r.loc),
		"$lte": models.DateKey(end, r.loc),
	}}
	cursor, err := r.overrideColl.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []overrideDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	overrides := make(map[string]models.DaySchedule, len(docs))
	for _, doc := range docs {
		overrides[doc.Date] = doc.Shifts
	}
	return overrides, nil
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	d := t.In(loc)
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
}
