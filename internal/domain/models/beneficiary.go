// internal/domain/models/beneficiary.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Beneficiary statuses.
const (
	BeneficiaryActive   = "active"
	BeneficiaryInactive = "inactive"
	BeneficiaryArchived = "archived"
)

// Address is a Nigerian postal scope: state plus Local Government Area.
type Address struct {
	State string `bson:"state" json:"state"`
	LGA   string `bson:"lga" json:"lga"`
}

// GeoPoint is an optional GPS fix for a beneficiary's residence.
type GeoPoint struct {
	Lat float64 `bson:"lat" json:"lat"`
	Lng float64 `bson:"lng" json:"lng"`
}

// Participation records a beneficiary's enrollment in a program.
type Participation struct {
	ProgramID  primitive.ObjectID `bson:"program_id" json:"program_id"`
	EnrolledAt time.Time          `bson:"enrolled_at" json:"enrolled_at"`
	Status     string             `bson:"status" json:"status"` // active | withdrawn | completed
}

// Beneficiary is a person served by one or more programs.
type Beneficiary struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName  string             `bson:"first_name" json:"first_name"`
	LastName   string             `bson:"last_name" json:"last_name"`
	FullNameCI string             `bson:"full_name_ci" json:"-"`

	DateOfBirth time.Time `bson:"date_of_birth" json:"date_of_birth"`
	Gender      string    `bson:"gender" json:"gender"`
	Address     Address   `bson:"address" json:"address"`
	GPS         *GeoPoint `bson:"gps,omitempty" json:"gps,omitempty"`

	Participations []Participation `bson:"participations,omitempty" json:"participations,omitempty"`

	// AmountSpent is denormalized from program expenditure allocations;
	// dashboards recompute from source when it matters.
	AmountSpent int64 `bson:"amount_spent" json:"amount_spent"` // minor units (kobo)

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EnrolledIn reports whether the beneficiary has an active participation
// in the given program.
func (b *Beneficiary) EnrolledIn(programID primitive.ObjectID) bool {
	for _, p := range b.Participations {
		if p.ProgramID == programID && p.Status == "active" {
			return true
		}
	}
	return false
}
