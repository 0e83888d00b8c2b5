// internal/domain/models/program.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program statuses.
const (
	ProgramPlanning  = "planning"
	ProgramActive    = "active"
	ProgramCompleted = "completed"
	ProgramCancelled = "cancelled"
)

// Budget is a program's allocated funding.
type Budget struct {
	Allocated int64  `bson:"allocated" json:"allocated"` // minor units (kobo)
	Currency  string `bson:"currency" json:"currency"`
}

// Program is a named initiative with a date range and target states.
type Program struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Type        string             `bson:"type" json:"type"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	StartDate    time.Time `bson:"start_date" json:"start_date"`
	EndDate      time.Time `bson:"end_date" json:"end_date"`
	TargetStates []string  `bson:"target_states,omitempty" json:"target_states,omitempty"`

	Budget Budget `bson:"budget" json:"budget"`

	TargetBeneficiaries int64 `bson:"target_beneficiaries" json:"target_beneficiaries"`
	ActualBeneficiaries int64 `bson:"actual_beneficiaries" json:"actual_beneficiaries"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// ValidProgramTransition reports whether a program may move between the
// two statuses. Planning programs can activate or be cancelled; active
// programs can complete or be cancelled. Completed and cancelled are
// terminal.
func ValidProgramTransition(from, to string) bool {
	if from == to {
		return true
	}
	switch from {
	case ProgramPlanning:
		return to == ProgramActive || to == ProgramCancelled
	case ProgramActive:
		return to == ProgramCompleted || to == ProgramCancelled
	}
	return false
}
