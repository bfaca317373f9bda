package busyblockRepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookable/models"
)

// BusyBlockRepository reads busy blocks mirrored from connected calendar
// integrations. The sync plumbing that writes them is a separate concern.
type BusyBlockRepository interface {
	// FindBySource returns the blocks of one integration overlapping
	// [start, end).
	FindBySource(ctx context.Context, source string, start, end time.Time) ([]models.Period, error)
}

type mongoBusyBlockRepo struct {
	coll *mongo.Collection
}

// NewMongoBusyBlockRepo constructs a MongoDB BusyBlockRepository.
func NewMongoBusyBlockRepo(db *mongo.Database) BusyBlockRepository {
	return &mongoBusyBlockRepo{
		coll: db.Collection("busy_blocks"),
	}
}

// busyBlockDoc is one mirrored calendar event.
type busyBlockDoc struct {
	UID    string    `bson:"uid"`
	Source string    `bson:"source"`
	Start  time.Time `bson:"start"`
	End    time.Time `bson:"end"`
}

func (r *mongoBusyBlockRepo) FindBySource(ctx context.Context, source string, start, end time.Time) ([]models.Period, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"source": source,
		"start":  bson.M{"$lt": end},
		"end":    bson.M{"$gt": start},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []busyBlockDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	periods := make([]models.Period, len(docs))
	for i, doc := range docs {
		periods[i] = models.Period{Start: doc.Start, End: doc.End, UID: doc.UID}
	}
	return periods, nil
}
