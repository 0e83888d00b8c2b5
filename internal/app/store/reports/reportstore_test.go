// internal/app/store/reports/reportstore_test.go
package reportstore_test

import (
	"errors"
	"testing"

	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestUpsert_IdempotentByPeriod(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := reportstore.New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	first, err := s.Upsert(ctx, models.Report{
		Period:          "2026-07",
		TotalAmount:     1_000_000,
		ConfirmedAmount: 800_000,
		DonationCount:   12,
		Currency:        "NGN",
		GeneratedBy:     "scheduler",
	})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second, err := s.Upsert(ctx, models.Report{
		Period:          "2026-07",
		TotalAmount:     1_200_000,
		ConfirmedAmount: 900_000,
		DonationCount:   14,
		Currency:        "NGN",
		GeneratedBy:     "scheduler",
	})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	if first.ID != second.ID {
		t.Error("regeneration created a second report for the same period")
	}
	if second.TotalAmount != 1_200_000 || second.DonationCount != 14 {
		t.Errorf("totals not replaced: got %+v", second)
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Error("regeneration changed CreatedAt")
	}

	all, err := s.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("reports: got %d, want 1", len(all))
	}
}

func TestGetByPeriod_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := reportstore.New(db)
	_, err := s.GetByPeriod(ctx, "1999-01")
	if !errors.Is(err, reportstore.ErrNotFound) {
		t.Errorf("got %v, want ErrNotFound", err)
	}
}

func TestList_NewestPeriodFirst(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := reportstore.New(db)
	for _, p := range []string{"2026-05", "2026-07", "2026-06"} {
		if _, err := s.Upsert(ctx, models.Report{Period: p, Currency: "NGN", GeneratedBy: "scheduler"}); err != nil {
			t.Fatalf("upsert %s: %v", p, err)
		}
	}

	got, err := s.List(ctx, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d reports, want 2", len(got))
	}
	if got[0].Period != "2026-07" || got[1].Period != "2026-06" {
		t.Errorf("order: got %s, %s", got[0].Period, got[1].Period)
	}
}
