// Package model defines the entities stored in the record database
package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VideoRecord links an uploaded video to its access password. It is
// written exactly once per successful upload and never mutated afterwards.
type VideoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	VideoID   string             `bson:"videoId" json:"videoId"`
	Password  string             `bson:"password" json:"-"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	Status    string             `bson:"status" json:"status"`
}

const StatusActive = "active"
