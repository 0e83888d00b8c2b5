// internal/domain/models/donation.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Donation statuses.
const (
	DonationPending   = "pending"
	DonationConfirmed = "confirmed"
	DonationCancelled = "cancelled"
)

// Expenditure is a spend recorded against a donation. Expenditures are
// embedded so a donation and its spends are always written as one
// document.
type Expenditure struct {
	ID       string    `bson:"id" json:"id"`         // uuid
	Amount   int64     `bson:"amount" json:"amount"` // minor units (kobo)
	Category string    `bson:"category" json:"category"`
	Date     time.Time `bson:"date" json:"date"`
	Note     string    `bson:"note,omitempty" json:"note,omitempty"`

	// BeneficiaryID links the spend to a beneficiary, feeding their
	// denormalized amount-spent counter.
	BeneficiaryID *primitive.ObjectID `bson:"beneficiary_id,omitempty" json:"beneficiary_id,omitempty"`
}

// Donation is a monetary inflow from a donor.
type Donation struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DonorID  primitive.ObjectID `bson:"donor_id" json:"donor_id"`
	Amount   int64              `bson:"amount" json:"amount"` // minor units (kobo)
	Currency string             `bson:"currency" json:"currency"`
	Method   string             `bson:"method" json:"method"` // bank_transfer | card | cash | cheque

	Status     string    `bson:"status" json:"status"`
	ReceivedAt time.Time `bson:"received_at" json:"received_at"`

	Expenditures []Expenditure `bson:"expenditures,omitempty" json:"expenditures,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// SpentTotal is the sum of all expenditure amounts.
func (d *Donation) SpentTotal() int64 {
	var total int64
	for _, e := range d.Expenditures {
		total += e.Amount
	}
	return total
}

// BalanceRemaining is the derived invariant: amount minus the sum of
// expenditures. It is never stored independently.
func (d *Donation) BalanceRemaining() int64 {
	return d.Amount - d.SpentTotal()
}
