package models

// Option is a bookable service catalogue entry.
type Option struct {
	ID       string `bson:"id" json:"id"`
	Name     string `bson:"name" json:"name"`
	Duration int    `bson:"duration" json:"duration"` // minutes
}
