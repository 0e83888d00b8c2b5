package profile_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/impacthub/internal/app/features/profile"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/testutil"
	"go.uber.org/zap"
)

func TestSession_RequiresAuth(t *testing.T) {
	h := profile.NewHandler(nil, nil, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Session(rec, httptest.NewRequest("GET", "/me", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestUpdatePreferences_PersistsTheme(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	users := userstore.New(db)
	u, err := users.PromoteOrCreate(ctx, "Theme User", "theme@example.com", authz.RoleME, "", "s3cret-pass")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}

	h := profile.NewHandler(users, nil, zap.NewNop())
	tu := testutil.TestUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}

	req := testutil.NewJSONRequest(t, "PUT", "/me/preferences", map[string]string{"theme": "dark"})
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, testutil.WithUser(req, tu))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	got, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Preferences.Theme != "dark" {
		t.Errorf("theme: got %q, want dark", got.Preferences.Theme)
	}

	// A fresh read, as a reloaded client would issue, returns the theme.
	readReq := testutil.NewJSONRequest(t, "GET", "/me/preferences", nil)
	rec = httptest.NewRecorder()
	h.Preferences(rec, testutil.WithUser(readReq, tu))
	if rec.Code != http.StatusOK {
		t.Fatalf("read preferences: got %d", rec.Code)
	}
	var body struct {
		Preferences struct {
			Theme string `json:"theme"`
		} `json:"preferences"`
	}
	testutil.DecodeJSON(t, rec, &body)
	if body.Preferences.Theme != "dark" {
		t.Errorf("read-back theme: got %q, want dark", body.Preferences.Theme)
	}
}

func TestUpdatePreferences_RejectsUnknownTheme(t *testing.T) {
	h := profile.NewHandler(nil, nil, zap.NewNop())
	tu := testutil.MEUser()

	req := testutil.NewJSONRequest(t, "PUT", "/me/preferences", map[string]string{"theme": "solarized"})
	rec := httptest.NewRecorder()
	h.UpdatePreferences(rec, testutil.WithUser(req, tu))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
