package optionRepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bookable/models"
)

// ErrOptionNotFound is returned when the catalogue has no such option.
var ErrOptionNotFound = errors.New("option not found")

// OptionCatalog resolves bookable service options.
type OptionCatalog interface {
	GetOption(ctx context.Context, id string) (*models.Option, error)
}

type mongoOptionRepo struct {
	coll *mongo.Collection
}

// NewMongoOptionRepo constructs a MongoDB OptionCatalog.
func NewMongoOptionRepo(db *mongo.Database) OptionCatalog {
	return &mongoOptionRepo{
		coll: db.Collection("options"),
	}
}

func (r *mongoOptionRepo) GetOption(ctx context.Context, id string) (*models.Option, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var opt models.Option
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&opt)
	if err == mongo.ErrNoDocuments {
		return nil, ErrOptionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &opt, nil
}
