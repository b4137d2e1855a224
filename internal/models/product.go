package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product names are unique across the collection; the store enforces it with
// the name_unique index.
type Product struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Price     float64            `bson:"price" json:"price"`
	Category  string             `bson:"category" json:"category"`
	Desc      string             `bson:"desc" json:"desc"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}
