// internal/app/store/workflows/workflowstore_test.go
package workflowstore_test

import (
	"errors"
	"testing"

	workflowstore "github.com/dalemusser/impacthub/internal/app/store/workflows"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestCreate_DerivesStatusAndAssignsStepIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := workflowstore.New(db)
	w, err := s.Create(ctx, models.Workflow{
		Name: "Beneficiary Intake",
		Steps: []models.WorkflowStep{
			{Name: "Collect documents"},
			{Name: "Verify residence"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if w.Status != models.StepPending {
		t.Errorf("status: got %q, want pending", w.Status)
	}
	for i, st := range w.Steps {
		if st.ID == "" {
			t.Errorf("step %d has no id", i)
		}
		if st.Status != models.StepPending {
			t.Errorf("step %d status: got %q, want pending", i, st.Status)
		}
	}
}

func TestSetStepStatus_RederivesWorkflowStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := workflowstore.New(db)
	w, err := s.Create(ctx, models.Workflow{
		Name: "Distribution",
		Steps: []models.WorkflowStep{
			{Name: "Pack supplies"},
			{Name: "Deliver"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.SetStepStatus(ctx, w.ID, w.Steps[0].ID, models.StepCompleted)
	if err != nil {
		t.Fatalf("complete first step: %v", err)
	}
	if got.Status != models.StepInProgress {
		t.Errorf("after one of two: got %q, want in_progress", got.Status)
	}
	if got.CompletionPercent() != 50 {
		t.Errorf("percent: got %d, want 50", got.CompletionPercent())
	}
	if got.Steps[0].CompletedAt == nil {
		t.Error("completed step missing timestamp")
	}

	got, err = s.SetStepStatus(ctx, w.ID, w.Steps[1].ID, models.StepCompleted)
	if err != nil {
		t.Fatalf("complete second step: %v", err)
	}
	if got.Status != models.StepCompleted {
		t.Errorf("after all steps: got %q, want completed", got.Status)
	}

	// Reopening a step drops the workflow back out of completed.
	got, err = s.SetStepStatus(ctx, w.ID, w.Steps[1].ID, models.StepPending)
	if err != nil {
		t.Fatalf("reopen step: %v", err)
	}
	if got.Status != models.StepInProgress {
		t.Errorf("after reopen: got %q, want in_progress", got.Status)
	}
	if got.Steps[1].CompletedAt != nil {
		t.Error("reopened step kept its completion timestamp")
	}
}

func TestSetStepStatus_UnknownStep(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := workflowstore.New(db)
	w, err := s.Create(ctx, models.Workflow{
		Name:  "Single Step",
		Steps: []models.WorkflowStep{{Name: "Only"}},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = s.SetStepStatus(ctx, w.ID, "no-such-step", models.StepCompleted)
	if !errors.Is(err, workflowstore.ErrStepNotFound) {
		t.Errorf("got %v, want ErrStepNotFound", err)
	}
}

func TestRemoveStep_RederivesStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := workflowstore.New(db)
	w, err := s.Create(ctx, models.Workflow{
		Name: "Trim",
		Steps: []models.WorkflowStep{
			{Name: "Done", Status: models.StepCompleted},
			{Name: "Never started"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.RemoveStep(ctx, w.ID, w.Steps[1].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err := s.GetByID(ctx, w.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != models.StepCompleted {
		t.Errorf("status after removing the pending step: got %q, want completed", got.Status)
	}
}
