// internal/domain/models/donor.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donor is a funding source, individual or organizational.
type Donor struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name   string             `bson:"name" json:"name"`
	NameCI string             `bson:"name_ci" json:"-"`
	Email  string             `bson:"email,omitempty" json:"email,omitempty"`
	Phone  string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Type   string             `bson:"type" json:"type"` // individual | organization

	// TotalDonated is a running counter bumped when a donation is
	// recorded for this donor.
	TotalDonated int64 `bson:"total_donated" json:"total_donated"` // minor units (kobo)

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
