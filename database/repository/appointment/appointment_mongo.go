package appointmentRepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookable/models"
)

// appointmentDoc denormalizes the end instant so overlap queries stay index
// friendly.
type appointmentDoc struct {
	models.Appointment `bson:",inline"`
	EndsAt             time.Time `bson:"ends_at"`
}

func (r *mongoAppointmentRepo) FindNonDeclined(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    bson.M{"$ne": models.AppointmentDeclined},
		"date_time": bson.M{"$lt": end},
		"ends_at":   bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []appointmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	appts := make([]models.Appointment, len(docs))
	for i, doc := range docs {
		appts[i] = doc.Appointment
	}
	return appts, nil
}

func (r *mongoAppointmentRepo) FindDeclinedIDs(ctx context.Context, start, end time.Time) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":    models.AppointmentDeclined,
		"date_time": bson.M{"$lt": end},
		"ends_at":   bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []appointmentDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}
	return ids, nil
}

func (r *mongoAppointmentRepo) Insert(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	if appt.CreatedAt.IsZero() {
		appt.CreatedAt = time.Now()
	}
	doc := appointmentDoc{Appointment: *appt, EndsAt: appt.EndTime()}
	_, err := r.coll.InsertOne(ctx, doc)
	return err
}

func (r *mongoAppointmentRepo) FindByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var doc appointmentDoc
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, err
	}
	return &doc.Appointment, nil
}

func (r *mongoAppointmentRepo) DeclineStalePending(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"status":     models.AppointmentPending,
		"created_at": bson.M{"$lt": cutoff},
	}
	update := bson.M{"$set": bson.M{"status": models.AppointmentDeclined}}
	res, err := r.coll.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
