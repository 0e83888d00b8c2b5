package dashboard_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/impacthub/internal/app/features/dashboard"
	"github.com/dalemusser/impacthub/internal/app/store/audit"
	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *dashboard.Handler {
	t.Helper()
	return dashboard.NewHandler(db,
		beneficiarystore.New(db), programstore.New(db), donationstore.New(db), audit.New(db), zap.NewNop())
}

func TestSummary_CountsAndTotals(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Ada", "Obi", "Lagos", "Ikeja")
	fixtures.CreateBeneficiary(ctx, "Musa", "Bello", "Kano", "Nassarawa")
	fixtures.CreateProgram(ctx, "Cash Transfer", "Lagos")
	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	now := time.Now().UTC()
	fixtures.CreateDonation(ctx, donor.ID, 40_000, models.DonationConfirmed, now)
	fixtures.CreateDonation(ctx, donor.ID, 10_000, models.DonationPending, now)
	fixtures.CreateDonation(ctx, donor.ID, 99_000, models.DonationCancelled, now)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET", "/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		Beneficiaries  int64 `json:"beneficiaries"`
		ActivePrograms int64 `json:"active_programs"`
		Donors         int64 `json:"donors"`
		Donations      int64 `json:"donations"`
		DonationTotals struct {
			Amount          int64 `json:"amount"`
			ConfirmedAmount int64 `json:"confirmed_amount"`
			Count           int64 `json:"count"`
		} `json:"donation_totals"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Beneficiaries != 2 {
		t.Errorf("beneficiaries: got %d, want 2", got.Beneficiaries)
	}
	if got.ActivePrograms != 1 {
		t.Errorf("active_programs: got %d, want 1", got.ActivePrograms)
	}
	if got.Donors != 1 {
		t.Errorf("donors: got %d, want 1", got.Donors)
	}
	if got.DonationTotals.Amount != 50_000 {
		t.Errorf("total amount: got %d, want 50000 (cancelled excluded)", got.DonationTotals.Amount)
	}
	if got.DonationTotals.ConfirmedAmount != 40_000 {
		t.Errorf("confirmed amount: got %d, want 40000", got.DonationTotals.ConfirmedAmount)
	}
}

func TestSummary_StateScopedCounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Ada", "Obi", "Lagos", "Ikeja")
	fixtures.CreateBeneficiary(ctx, "Musa", "Bello", "Kano", "Nassarawa")
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET", "/dashboard/summary", nil)
	rec := httptest.NewRecorder()
	h.Summary(rec, testutil.WithUser(req, testutil.StateAdmin("Kano")))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		Beneficiaries int64  `json:"beneficiaries"`
		StateScope    string `json:"state_scope"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Beneficiaries != 1 {
		t.Errorf("beneficiaries: got %d, want 1 (Kano only)", got.Beneficiaries)
	}
	if got.StateScope != "Kano" {
		t.Errorf("state_scope: got %q, want Kano", got.StateScope)
	}
}

func TestDonationSeries_ZeroFillsMonths(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	mar := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	fixtures.CreateDonation(ctx, donor.ID, 10_000, models.DonationConfirmed, jan)
	fixtures.CreateDonation(ctx, donor.ID, 5_000, models.DonationConfirmed, mar)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET",
		"/dashboard/donations?from=2026-01-01T00:00:00Z&to=2026-03-31T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.DonationSeries(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		Series []struct {
			Month  string `json:"month"`
			Amount int64  `json:"amount"`
		} `json:"series"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Series) != 3 {
		t.Fatalf("series length: got %d, want 3", len(got.Series))
	}
	if got.Series[1].Month != "2026-02" || got.Series[1].Amount != 0 {
		t.Errorf("february should be zero-filled, got %+v", got.Series[1])
	}
	if got.Series[0].Amount != 10_000 || got.Series[2].Amount != 5_000 {
		t.Errorf("series amounts: got %+v", got.Series)
	}
}

func TestOverview_CombinesSections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Ada", "Obi", "Lagos", "Ikeja")
	fixtures.CreateBeneficiary(ctx, "Musa", "Bello", "Kano", "Nassarawa")
	fixtures.CreateProgram(ctx, "Cash Transfer", "Lagos")
	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	fixtures.CreateDonation(ctx, donor.ID, 25_000, models.DonationConfirmed, feb)
	if err := audit.New(db).Log(ctx, audit.Event{
		Category:  audit.CategoryData,
		EventType: "donation_recorded",
		Action:    "create",
		Success:   true,
	}); err != nil {
		t.Fatalf("seed audit event: %v", err)
	}
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET",
		"/dashboard?from=2026-01-01T00:00:00Z&to=2026-03-31T00:00:00Z", nil)
	rec := httptest.NewRecorder()
	h.Overview(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		Counts struct {
			Beneficiaries int64 `json:"beneficiaries"`
		} `json:"counts"`
		DonationTotals struct {
			Amount int64 `json:"amount"`
		} `json:"donation_totals"`
		MonthlySeries []struct {
			Month  string `json:"month"`
			Amount int64  `json:"amount"`
		} `json:"monthly_series"`
		States []struct {
			State string `json:"state"`
		} `json:"states"`
		Programs []struct {
			Name string `json:"name"`
		} `json:"programs"`
		Activity []struct {
			EventType string `json:"event_type"`
		} `json:"activity"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if got.Counts.Beneficiaries != 2 {
		t.Errorf("counts.beneficiaries: got %d, want 2", got.Counts.Beneficiaries)
	}
	if got.DonationTotals.Amount != 25_000 {
		t.Errorf("donation total: got %d, want 25000", got.DonationTotals.Amount)
	}
	if len(got.MonthlySeries) != 3 {
		t.Fatalf("monthly series length: got %d, want 3 (zero-filled)", len(got.MonthlySeries))
	}
	if got.MonthlySeries[0].Amount != 0 || got.MonthlySeries[1].Amount != 25_000 {
		t.Errorf("monthly series: got %+v", got.MonthlySeries)
	}
	if len(got.States) != 2 {
		t.Errorf("states: got %d, want 2", len(got.States))
	}
	if len(got.Programs) != 1 {
		t.Errorf("programs: got %d, want 1", len(got.Programs))
	}
	if len(got.Activity) != 1 || got.Activity[0].EventType != "donation_recorded" {
		t.Errorf("activity feed: got %+v", got.Activity)
	}
}

func TestOverview_StateParamFiltersDistribution(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Ada", "Obi", "Lagos", "Ikeja")
	fixtures.CreateBeneficiary(ctx, "Musa", "Bello", "Kano", "Nassarawa")
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET", "/dashboard?state=Lagos", nil)
	rec := httptest.NewRecorder()
	h.Overview(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		States []struct {
			State string `json:"state"`
			Count int64  `json:"count"`
		} `json:"states"`
		StateScope string `json:"state_scope"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.States) != 1 || got.States[0].State != "Lagos" || got.States[0].Count != 1 {
		t.Errorf("states: got %+v, want Lagos=1", got.States)
	}
	if got.StateScope != "Lagos" {
		t.Errorf("state_scope: got %q, want Lagos", got.StateScope)
	}
}

func TestBeneficiariesByState_SkipsArchived(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Ada", "Obi", "Lagos", "Ikeja")
	fixtures.CreateBeneficiary(ctx, "Ben", "Okafor", "Lagos", "Surulere")
	archived := fixtures.CreateBeneficiary(ctx, "Musa", "Bello", "Kano", "Nassarawa")
	store := beneficiarystore.New(db)
	if err := store.Archive(ctx, archived.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET", "/dashboard/beneficiaries-by-state", nil)
	rec := httptest.NewRecorder()
	h.BeneficiariesByState(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		States []struct {
			State string `json:"state"`
			Count int64  `json:"count"`
		} `json:"states"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.States) != 1 {
		t.Fatalf("states: got %d, want 1", len(got.States))
	}
	if got.States[0].State != "Lagos" || got.States[0].Count != 2 {
		t.Errorf("distribution: got %+v", got.States[0])
	}
}
