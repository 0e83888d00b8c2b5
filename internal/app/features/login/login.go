// internal/app/features/login/login.go
package login

import (
	"errors"
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. On success the session cookie is
// written synchronously, so the client can hit an authenticated endpoint
// immediately, with no propagation delay to wait out.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}

	u, ok := h.authenticate(w, r, req.Email, req.Password)
	if !ok {
		return
	}

	su := &auth.SessionUser{
		ID:         u.ID.Hex(),
		Name:       u.FullName,
		Email:      u.Email,
		Role:       u.Role,
		StateScope: u.StateScope,
	}
	if err := h.Sessions.SignIn(w, r, su); err != nil {
		h.Log.Error("session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not establish session")
		return
	}
	if err := h.Users.TouchLastLogin(r.Context(), u.ID); err != nil {
		h.Log.Warn("touch last login failed", zap.Error(err))
	}

	h.Audit.LoginSuccess(r.Context(), r, u.ID, u.Email)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"user":        sessionUserResponse(su),
		"preferences": u.Preferences,
	})
}

// authenticate runs the checks shared by Login and Token: credentials
// first, then profile state. Pending and inactive profiles are reported
// as their own conditions, never as a bad password.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, email, password string) (*models.User, bool) {
	ctx := r.Context()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedNotFound, "no account for email", email)
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return nil, false
		}
		h.Log.Error("login lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not sign in")
		return nil, false
	}

	if err := h.Users.VerifyPassword(u, password); err != nil {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedPassword, "password mismatch", email)
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return nil, false
	}

	if u.Role == "" {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedNoProfile, "no role assigned", email)
		httpjson.Error(w, http.StatusForbidden, "account is awaiting role assignment")
		return nil, false
	}
	if !u.Active {
		h.Audit.LoginFailed(ctx, r, audit.EventLoginFailedInactive, "account deactivated", email)
		httpjson.Error(w, http.StatusForbidden, "account is deactivated")
		return nil, false
	}
	return u, true
}
