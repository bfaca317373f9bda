package appointmentRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"bookable/models"
)

// ErrAppointmentNotFound is returned when no appointment matches the lookup.
var ErrAppointmentNotFound = errors.New("appointment not found")

// AppointmentRepository stores committed appointment records.
type AppointmentRepository interface {
	// FindNonDeclined returns appointments overlapping [start, end) whose
	// status still blocks time.
	FindNonDeclined(ctx context.Context, start, end time.Time) ([]models.Appointment, error)
	// FindDeclinedIDs returns the IDs of declined appointments overlapping
	// [start, end), used to drop stale external calendar mirrors.
	FindDeclinedIDs(ctx context.Context, start, end time.Time) ([]string, error)
	Insert(ctx context.Context, appt *models.Appointment) error
	FindByID(ctx context.Context, id string) (*models.Appointment, error)
	// DeclineStalePending declines pending appointments created before
	// cutoff so they stop blocking time.
	DeclineStalePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type mongoAppointmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAppointmentRepo constructs a MongoDB AppointmentRepository.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	return &mongoAppointmentRepo{
		coll: db.Collection("appointments"),
	}
}
