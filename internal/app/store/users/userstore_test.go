// internal/app/store/users/userstore_test.go
package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/testutil"
)

func TestRegister_StartsPendingAndInactive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	u, err := s.Register(ctx, "Amina Bello", "Amina@Example.COM", "s3cret-pass")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if u.Role != "" {
		t.Errorf("role: got %q, want pending (empty)", u.Role)
	}
	if u.Active {
		t.Error("new registration should be inactive")
	}
	if u.Email != "amina@example.com" {
		t.Errorf("email not normalized: got %q", u.Email)
	}
	if u.PasswordHash == "s3cret-pass" {
		t.Error("password stored in clear")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	if _, err := s.Register(ctx, "First", "dup@example.com", "pass-one"); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := s.Register(ctx, "Second", "DUP@example.com", "pass-two")
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Errorf("got %v, want ErrDuplicateEmail", err)
	}
}

func TestVerifyPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	u, err := s.Register(ctx, "Chidi Okafor", "chidi@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	stored, err := s.GetByEmail(ctx, u.Email)
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if err := s.VerifyPassword(stored, "correct-horse"); err != nil {
		t.Errorf("correct password rejected: %v", err)
	}
	if err := s.VerifyPassword(stored, "wrong"); !errors.Is(err, userstore.ErrBadCredentials) {
		t.Errorf("wrong password: got %v, want ErrBadCredentials", err)
	}
}

func TestUpdateRole_RequiresScopeForStateRoles(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	u, err := s.Register(ctx, "Scoped User", "scoped@example.com", "pass-word")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := s.UpdateRole(ctx, u.ID, authz.RoleStateAdmin, ""); err == nil {
		t.Error("state_admin without scope should be rejected")
	}
	if err := s.UpdateRole(ctx, u.ID, authz.RoleStateAdmin, "Kano"); err != nil {
		t.Fatalf("state_admin with scope: %v", err)
	}

	got, err := s.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Role != authz.RoleStateAdmin || got.StateScope != "Kano" {
		t.Errorf("got role=%q scope=%q", got.Role, got.StateScope)
	}
}

func TestPromoteOrCreate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	s := userstore.New(db)
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	first, err := s.PromoteOrCreate(ctx, "Root Admin", "root@example.com", authz.RoleNationalAdmin, "", "boot-pass")
	if err != nil {
		t.Fatalf("first promote: %v", err)
	}
	second, err := s.PromoteOrCreate(ctx, "Root Admin", "root@example.com", authz.RoleNationalAdmin, "", "boot-pass")
	if err != nil {
		t.Fatalf("second promote: %v", err)
	}
	if first.ID != second.ID {
		t.Error("promote created a second document for the same email")
	}
	if !second.Active || second.Role != authz.RoleNationalAdmin {
		t.Errorf("got active=%v role=%q", second.Active, second.Role)
	}
}
