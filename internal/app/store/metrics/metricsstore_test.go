package metricsstore_test

import (
	"testing"
	"time"

	metricsstore "github.com/dalemusser/impacthub/internal/app/store/metrics"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db, "")

	if counts.Beneficiaries != 0 {
		t.Errorf("Beneficiaries: got %d, want 0", counts.Beneficiaries)
	}
	if counts.ActivePrograms != 0 {
		t.Errorf("ActivePrograms: got %d, want 0", counts.ActivePrograms)
	}
	if counts.Donors != 0 {
		t.Errorf("Donors: got %d, want 0", counts.Donors)
	}
	if counts.Donations != 0 {
		t.Errorf("Donations: got %d, want 0", counts.Donations)
	}
	if counts.OpenWorkflows != 0 {
		t.Errorf("OpenWorkflows: got %d, want 0", counts.OpenWorkflows)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "One", "Kano", "Kano", "Nassarawa")
	fixtures.CreateBeneficiary(ctx, "Two", "Lagos", "Lagos", "Ikeja")

	fixtures.CreateProgram(ctx, "Program Kano", "Kano")
	fixtures.CreateProgram(ctx, "Program Lagos", "Lagos")

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	now := time.Now().UTC()
	fixtures.CreateDonation(ctx, donor.ID, 10_000, models.DonationConfirmed, now)
	fixtures.CreateDonation(ctx, donor.ID, 20_000, models.DonationCancelled, now)

	fixtures.CreateWorkflow(ctx, "Open", models.StepPending, models.StepPending)
	fixtures.CreateWorkflow(ctx, "Closed", models.StepCompleted, models.StepCompleted)

	counts := metricsstore.FetchDashboardCounts(ctx, db, "")
	if counts.Beneficiaries != 2 {
		t.Errorf("Beneficiaries: got %d, want 2", counts.Beneficiaries)
	}
	if counts.ActivePrograms != 2 {
		t.Errorf("ActivePrograms: got %d, want 2", counts.ActivePrograms)
	}
	if counts.Donors != 1 {
		t.Errorf("Donors: got %d, want 1", counts.Donors)
	}
	if counts.Donations != 1 {
		t.Errorf("Donations (cancelled excluded): got %d, want 1", counts.Donations)
	}
	if counts.OpenWorkflows != 1 {
		t.Errorf("OpenWorkflows: got %d, want 1", counts.OpenWorkflows)
	}

	// State scoping narrows beneficiary and program counts.
	scoped := metricsstore.FetchDashboardCounts(ctx, db, "Kano")
	if scoped.Beneficiaries != 1 {
		t.Errorf("scoped Beneficiaries: got %d, want 1", scoped.Beneficiaries)
	}
	if scoped.ActivePrograms != 1 {
		t.Errorf("scoped ActivePrograms: got %d, want 1", scoped.ActivePrograms)
	}
}
