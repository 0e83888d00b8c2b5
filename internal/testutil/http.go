// internal/testutil/http.go
package testutil

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	StateScope string
}

// NationalAdmin returns a TestUser with the national_admin role.
func NationalAdmin() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test National Admin",
		Email: "admin@test.ng",
		Role:  authz.RoleNationalAdmin,
	}
}

// StateAdmin returns a TestUser scoped to the given state.
func StateAdmin(state string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test State Admin",
		Email:      "stateadmin@test.ng",
		Role:       authz.RoleStateAdmin,
		StateScope: state,
	}
}

// FieldOfficer returns a TestUser with the field_officer role.
func FieldOfficer(state string) TestUser {
	return TestUser{
		ID:         primitive.NewObjectID().Hex(),
		Name:       "Test Field Officer",
		Email:      "officer@test.ng",
		Role:       authz.RoleFieldOfficer,
		StateScope: state,
	}
}

// FinanceUser returns a TestUser with the finance role.
func FinanceUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Finance",
		Email: "finance@test.ng",
		Role:  authz.RoleFinance,
	}
}

// MEUser returns a TestUser with the m_e role.
func MEUser() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test M&E",
		Email: "me@test.ng",
		Role:  authz.RoleME,
	}
}

// Donor returns a TestUser with the donor role.
func Donor() TestUser {
	return TestUser{
		ID:    primitive.NewObjectID().Hex(),
		Name:  "Test Donor",
		Email: "donor@test.ng",
		Role:  authz.RoleDonor,
	}
}

// SessionManager returns a throwaway session manager for tests that
// exercise a feature router with its role middleware attached.
func SessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager("0123456789abcdef0123456789abcdef", "test_session", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return sm
}

// WithUser adds a user to the request context, bypassing the session
// middleware.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Role:       user.Role,
		StateScope: user.StateScope,
	})
}

// NewJSONRequest creates a request with a JSON-encoded body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	if body == nil {
		return httptest.NewRequest(method, target, nil)
	}
	buf, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(buf))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// DefaultPage returns the standard first page for store list tests.
func DefaultPage() paging.Page {
	return paging.Page{Limit: paging.PageSize}
}

// DecodeJSON decodes a recorded response body into dst.
func DecodeJSON(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(dst); err != nil {
		t.Fatalf("decode response body: %v", err)
	}
}
