package scheduleRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookable/models"
)

// ScheduleRepository resolves the recurring working-hours schedule into
// per-date day schedules.
type ScheduleRepository interface {
	// GetSchedule returns the day schedules for every date touched by
	// [start, end]. Dates with no working hours are absent from the map.
	GetSchedule(ctx context.Context, start, end time.Time) (models.Schedule, error)
}

type mongoScheduleRepo struct {
	hoursColl    *mongo.Collection
	overrideColl *mongo.Collection
	loc          *time.Location
}

// NewMongoScheduleRepo constructs a MongoDB ScheduleRepository. Weekly
// working hours live in "working_hours"; date-specific exceptions in
// "schedule_overrides".
func NewMongoScheduleRepo(db *mongo.Database, loc *time.Location) ScheduleRepository {
	return &mongoScheduleRepo{
		hoursColl:    db.Collection("working_hours"),
		overrideColl: db.Collection("schedule_overrides"),
		loc:          loc,
	}
}
