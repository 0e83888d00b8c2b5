// internal/domain/models/workflow.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Workflow step statuses.
const (
	StepPending    = "pending"
	StepInProgress = "in_progress"
	StepCompleted  = "completed"
)

// WorkflowStep is an ordered sub-task of a workflow with its own status.
type WorkflowStep struct {
	ID          string     `bson:"id" json:"id"` // uuid
	Name        string     `bson:"name" json:"name"`
	Status      string     `bson:"status" json:"status"`
	Assignee    string     `bson:"assignee,omitempty" json:"assignee,omitempty"`
	CompletedAt *time.Time `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Workflow is a named process made of ordered steps.
type Workflow struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	NameCI      string             `bson:"name_ci" json:"-"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	Steps []WorkflowStep `bson:"steps" json:"steps"`

	Status string `bson:"status" json:"status"` // pending | in_progress | completed

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// CompletedSteps counts steps whose status is "completed".
func (w *Workflow) CompletedSteps() int {
	n := 0
	for _, s := range w.Steps {
		if s.Status == StepCompleted {
			n++
		}
	}
	return n
}

// CompletionPercent derives the completion percentage from step statuses.
// An empty workflow is 0% complete. The value is never stored.
func (w *Workflow) CompletionPercent() int {
	if len(w.Steps) == 0 {
		return 0
	}
	return w.CompletedSteps() * 100 / len(w.Steps)
}

// DerivedStatus maps step progress onto an overall workflow status.
func (w *Workflow) DerivedStatus() string {
	done := w.CompletedSteps()
	switch {
	case len(w.Steps) > 0 && done == len(w.Steps):
		return StepCompleted
	case done > 0:
		return StepInProgress
	default:
		for _, s := range w.Steps {
			if s.Status == StepInProgress {
				return StepInProgress
			}
		}
		return StepPending
	}
}
