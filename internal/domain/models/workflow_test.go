package models

import "testing"

func steps(statuses ...string) []WorkflowStep {
	out := make([]WorkflowStep, 0, len(statuses))
	for i, s := range statuses {
		out = append(out, WorkflowStep{ID: "s" + string(rune('0'+i)), Name: "step", Status: s})
	}
	return out
}

func TestWorkflow_CompletionPercent(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     int
	}{
		{"empty workflow", nil, 0},
		{"none completed", []string{StepPending, StepPending}, 0},
		{"half completed", []string{StepCompleted, StepPending}, 50},
		{"one of three", []string{StepCompleted, StepPending, StepPending}, 33},
		{"all completed", []string{StepCompleted, StepCompleted, StepCompleted}, 100},
		{"in progress does not count", []string{StepInProgress, StepCompleted}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Workflow{Steps: steps(tt.statuses...)}
			if got := w.CompletionPercent(); got != tt.want {
				t.Errorf("CompletionPercent() = %d, want %d", got, tt.want)
			}
			// Consistency with the proportion of completed steps.
			if len(w.Steps) > 0 {
				want := w.CompletedSteps() * 100 / len(w.Steps)
				if got := w.CompletionPercent(); got != want {
					t.Errorf("CompletionPercent() = %d, inconsistent with %d/%d completed", got, w.CompletedSteps(), len(w.Steps))
				}
			}
		})
	}
}

func TestWorkflow_DerivedStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []string
		want     string
	}{
		{"empty", nil, StepPending},
		{"all pending", []string{StepPending, StepPending}, StepPending},
		{"one in progress", []string{StepInProgress, StepPending}, StepInProgress},
		{"partially done", []string{StepCompleted, StepPending}, StepInProgress},
		{"all done", []string{StepCompleted, StepCompleted}, StepCompleted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Workflow{Steps: steps(tt.statuses...)}
			if got := w.DerivedStatus(); got != tt.want {
				t.Errorf("DerivedStatus() = %q, want %q", got, tt.want)
			}
		})
	}
}
