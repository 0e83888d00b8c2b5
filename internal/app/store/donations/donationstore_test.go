// internal/app/store/donations/donationstore_test.go
package donationstore_test

import (
	"errors"
	"testing"
	"time"

	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestCreate_DefaultsPending(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	s := donationstore.New(db)

	d, err := s.Create(ctx, models.Donation{
		DonorID:  donor.ID,
		Amount:   500_000,
		Currency: "ngn",
		Method:   "Bank_Transfer",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Status != models.DonationPending {
		t.Errorf("status: got %q, want pending", d.Status)
	}
	if d.Currency != "NGN" {
		t.Errorf("currency not normalized: got %q", d.Currency)
	}
	if d.ReceivedAt.IsZero() {
		t.Error("received_at not defaulted")
	}
}

func TestCreate_RejectsNonPositiveAmount(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	s := donationstore.New(db)

	for _, amount := range []int64{0, -100} {
		if _, err := s.Create(ctx, models.Donation{DonorID: donor.ID, Amount: amount, Currency: "NGN"}); err == nil {
			t.Errorf("amount %d accepted", amount)
		}
	}
}

func TestCreate_EmbedsExpenditures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	s := donationstore.New(db)

	d, err := s.Create(ctx, models.Donation{
		DonorID:  donor.ID,
		Amount:   100_000,
		Currency: "NGN",
		Expenditures: []models.Expenditure{
			{Amount: 60_000, Category: "Food"},
			{Amount: 30_000, Category: "transport"},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Expenditures) != 2 {
		t.Fatalf("expenditures: got %d, want 2", len(got.Expenditures))
	}
	for _, e := range got.Expenditures {
		if e.ID == "" {
			t.Errorf("expenditure id not assigned: %+v", e)
		}
		if e.Date.IsZero() {
			t.Errorf("expenditure date not defaulted: %+v", e)
		}
	}
	if got.Expenditures[0].Category != "food" {
		t.Errorf("category not normalized: got %q", got.Expenditures[0].Category)
	}
	if got.BalanceRemaining() != 10_000 {
		t.Errorf("balance: got %d, want 10000", got.BalanceRemaining())
	}

	// Spends beyond the donation amount never reach the collection.
	_, err = s.Create(ctx, models.Donation{
		DonorID:      donor.ID,
		Amount:       10_000,
		Currency:     "NGN",
		Expenditures: []models.Expenditure{{Amount: 12_000, Category: "food"}},
	})
	if !errors.Is(err, donationstore.ErrOverspend) {
		t.Errorf("got %v, want ErrOverspend", err)
	}
}

func TestAddExpenditure_BalanceGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	don := fixtures.CreateDonation(ctx, donor.ID, 100_000, models.DonationConfirmed, time.Now().UTC())
	s := donationstore.New(db)

	if _, err := s.AddExpenditure(ctx, don.ID, models.Expenditure{Amount: 60_000, Category: "food"}); err != nil {
		t.Fatalf("first spend: %v", err)
	}
	if _, err := s.AddExpenditure(ctx, don.ID, models.Expenditure{Amount: 40_000, Category: "transport"}); err != nil {
		t.Fatalf("spend to exact balance: %v", err)
	}

	// The donation is now fully spent; any further spend must be refused.
	_, err := s.AddExpenditure(ctx, don.ID, models.Expenditure{Amount: 1, Category: "misc"})
	if !errors.Is(err, donationstore.ErrOverspend) {
		t.Errorf("got %v, want ErrOverspend", err)
	}

	got, err := s.GetByID(ctx, don.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BalanceRemaining() != 0 {
		t.Errorf("balance: got %d, want 0", got.BalanceRemaining())
	}
	if len(got.Expenditures) != 2 {
		t.Errorf("expenditures: got %d, want 2", len(got.Expenditures))
	}
}

func TestAddExpenditure_CancelledDonation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	don := fixtures.CreateDonation(ctx, donor.ID, 100_000, models.DonationCancelled, time.Now().UTC())
	s := donationstore.New(db)

	if _, err := s.AddExpenditure(ctx, don.ID, models.Expenditure{Amount: 10, Category: "food"}); !errors.Is(err, donationstore.ErrCancelled) {
		t.Errorf("got %v, want ErrCancelled", err)
	}
}

func TestRemoveExpenditure(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donor := fixtures.CreateDonor(ctx, "Hope Foundation")
	don := fixtures.CreateDonation(ctx, donor.ID, 100_000, models.DonationConfirmed, time.Now().UTC())
	s := donationstore.New(db)

	exp, err := s.AddExpenditure(ctx, don.ID, models.Expenditure{Amount: 25_000, Category: "shelter"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := s.RemoveExpenditure(ctx, don.ID, exp.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveExpenditure(ctx, don.ID, exp.ID); !errors.Is(err, donationstore.ErrExpenditureNotFound) {
		t.Errorf("second remove: got %v, want ErrExpenditureNotFound", err)
	}

	got, err := s.GetByID(ctx, don.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.BalanceRemaining() != 100_000 {
		t.Errorf("balance: got %d, want full amount restored", got.BalanceRemaining())
	}
}

func TestList_FiltersByDonorAndRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	donorA := fixtures.CreateDonor(ctx, "Donor A")
	donorB := fixtures.CreateDonor(ctx, "Donor B")

	jan := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	fixtures.CreateDonation(ctx, donorA.ID, 10_000, models.DonationConfirmed, jan)
	fixtures.CreateDonation(ctx, donorA.ID, 20_000, models.DonationPending, feb)
	fixtures.CreateDonation(ctx, donorB.ID, 30_000, models.DonationConfirmed, feb)

	s := donationstore.New(db)

	got, more, err := s.List(ctx, donationstore.ListFilter{DonorID: donorA.ID}, testutil.DefaultPage())
	if err != nil {
		t.Fatalf("list by donor: %v", err)
	}
	if more {
		t.Error("unexpected next page")
	}
	if len(got) != 2 {
		t.Fatalf("by donor: got %d, want 2", len(got))
	}

	febStart := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	marStart := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got, _, err = s.List(ctx, donationstore.ListFilter{From: febStart, To: marStart}, testutil.DefaultPage())
	if err != nil {
		t.Fatalf("list by range: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("by range: got %d, want 2", len(got))
	}
}
