package reports_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/impacthub/internal/app/features/reports"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *reports.Handler {
	t.Helper()
	store := reportstore.New(db)
	gen := reporting.NewGenerator(donationstore.New(db), store, "NGN")
	return reports.NewHandler(store, gen, nil, zap.NewNop())
}

func TestGenerate_BuildsReportFromDonations(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	inPeriod := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	fixtures.CreateDonation(ctx, donor.ID, 30_000, models.DonationConfirmed, inPeriod)
	fixtures.CreateDonation(ctx, donor.ID, 20_000, models.DonationPending, inPeriod)
	fixtures.CreateDonation(ctx, donor.ID, 50_000, models.DonationCancelled, inPeriod)
	fixtures.CreateDonation(ctx, donor.ID, 99_000, models.DonationConfirmed,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC))
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "POST", "/reports/2026-07/run", nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.MEUser()), "period", "2026-07")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got models.Report
	testutil.DecodeJSON(t, rec, &got)
	if got.Period != "2026-07" {
		t.Errorf("period: got %q", got.Period)
	}
	if got.TotalAmount != 50_000 {
		t.Errorf("total: got %d, want 50000 (cancelled and out-of-period excluded)", got.TotalAmount)
	}
	if got.ConfirmedAmount != 30_000 {
		t.Errorf("confirmed: got %d, want 30000", got.ConfirmedAmount)
	}
	if got.DonationCount != 2 {
		t.Errorf("count: got %d, want 2", got.DonationCount)
	}
	if got.Currency != "NGN" {
		t.Errorf("currency: got %q", got.Currency)
	}
}

func TestGenerate_IdempotentByPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	when := time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC)
	fixtures.CreateDonation(ctx, donor.ID, 10_000, models.DonationConfirmed, when)
	h := newHandler(t, db)

	generate := func() models.Report {
		req := testutil.NewJSONRequest(t, "POST", "/reports/2026-07/run", nil)
		req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.MEUser()), "period", "2026-07")
		rec := httptest.NewRecorder()
		h.Generate(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
		}
		var rep models.Report
		testutil.DecodeJSON(t, rec, &rep)
		return rep
	}

	first := generate()
	fixtures.CreateDonation(ctx, donor.ID, 5_000, models.DonationConfirmed, when)
	second := generate()

	if second.ID != first.ID {
		t.Errorf("regeneration created a new report document")
	}
	if second.TotalAmount != 15_000 {
		t.Errorf("regenerated total: got %d, want 15000", second.TotalAmount)
	}

	rows, err := reportstore.New(db).List(ctx, 10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 1 {
		t.Errorf("stored reports: got %d, want 1", len(rows))
	}
}

func TestGenerate_BadPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "POST", "/reports/July/run", nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.MEUser()), "period", "July")
	rec := httptest.NewRecorder()
	h.Generate(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestGet_UnknownPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "GET", "/reports/2031-01", nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.MEUser()), "period", "2031-01")
	rec := httptest.NewRecorder()
	h.Get(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
