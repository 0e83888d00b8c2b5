// internal/domain/models/report.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Report is a monthly donation summary, generated by the scheduler or on
// demand and upserted idempotently by period.
type Report struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Period string             `bson:"period" json:"period"` // YYYY-MM

	TotalAmount     int64  `bson:"total_amount" json:"total_amount"`         // minor units (kobo)
	ConfirmedAmount int64  `bson:"confirmed_amount" json:"confirmed_amount"` // minor units (kobo)
	DonationCount   int64  `bson:"donation_count" json:"donation_count"`
	Currency        string `bson:"currency" json:"currency"`

	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
	GeneratedBy string    `bson:"generated_by" json:"generated_by"` // "scheduler" or a user id

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
