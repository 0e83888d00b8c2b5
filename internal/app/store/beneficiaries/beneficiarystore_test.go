// internal/app/store/beneficiaries/beneficiarystore_test.go
package beneficiarystore_test

import (
	"errors"
	"testing"

	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestEnroll_RejectsDoubleEnrollment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ben := fixtures.CreateBeneficiary(ctx, "Amina", "Bello", "Kano", "Nassarawa")
	prog := fixtures.CreateProgram(ctx, "Cash Transfer 2026", "Kano")
	s := beneficiarystore.New(db)

	if err := s.Enroll(ctx, ben.ID, prog.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := s.Enroll(ctx, ben.ID, prog.ID); !errors.Is(err, beneficiarystore.ErrAlreadyEnrolled) {
		t.Errorf("second enroll: got %v, want ErrAlreadyEnrolled", err)
	}

	got, err := s.GetByID(ctx, ben.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Participations) != 1 {
		t.Errorf("participations: got %d, want 1", len(got.Participations))
	}
}

func TestWithdraw_ThenReenroll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ben := fixtures.CreateBeneficiary(ctx, "Chidi", "Okafor", "Enugu", "Nsukka")
	prog := fixtures.CreateProgram(ctx, "School Feeding", "Enugu")
	s := beneficiarystore.New(db)

	if err := s.Withdraw(ctx, ben.ID, prog.ID); !errors.Is(err, beneficiarystore.ErrNotEnrolled) {
		t.Errorf("withdraw before enroll: got %v, want ErrNotEnrolled", err)
	}

	if err := s.Enroll(ctx, ben.ID, prog.ID); err != nil {
		t.Fatalf("enroll: %v", err)
	}
	if err := s.Withdraw(ctx, ben.ID, prog.ID); err != nil {
		t.Fatalf("withdraw: %v", err)
	}

	// A withdrawn participation does not block a fresh enrollment.
	if err := s.Enroll(ctx, ben.ID, prog.ID); err != nil {
		t.Fatalf("re-enroll: %v", err)
	}

	n, err := s.CountEnrolled(ctx, prog.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("enrolled count: got %d, want 1", n)
	}
}

func TestList_ExcludesArchivedByDefault(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := beneficiarystore.New(db)
	keep := fixtures.CreateBeneficiary(ctx, "Keep", "Me", "Lagos", "Ikeja")
	gone := fixtures.CreateBeneficiary(ctx, "Archive", "Me", "Lagos", "Ikeja")

	if err := s.Archive(ctx, gone.ID); err != nil {
		t.Fatalf("archive: %v", err)
	}

	got, _, err := s.List(ctx, beneficiarystore.ListFilter{State: "Lagos"}, testutil.DefaultPage())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].ID != keep.ID {
		t.Errorf("got %d rows, want only the unarchived beneficiary", len(got))
	}

	// Asking for archived explicitly still works.
	got, _, err = s.List(ctx, beneficiarystore.ListFilter{Status: models.BeneficiaryArchived}, testutil.DefaultPage())
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(got) != 1 || got[0].ID != gone.ID {
		t.Errorf("archived filter: got %d rows", len(got))
	}
}

func TestList_SearchByFoldedNamePrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreateBeneficiary(ctx, "Adaeze", "Nwosu", "Anambra", "Awka")
	fixtures.CreateBeneficiary(ctx, "Bala", "Musa", "Kaduna", "Zaria")

	s := beneficiarystore.New(db)
	got, _, err := s.List(ctx, beneficiarystore.ListFilter{Search: "ada"}, testutil.DefaultPage())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 1 || got[0].FirstName != "Adaeze" {
		t.Errorf("search: got %d rows", len(got))
	}
}
