// internal/app/features/login/token.go
package login

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type tokenRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Token handles POST /auth/token: credential exchange for a bearer token
// used by non-browser API clients. The same profile checks as Login
// apply, so a pending or deactivated account cannot mint a token either.
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	var req tokenRequest
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
	ttl := h.Sessions.TokenTTL()
	token, err := h.Sessions.IssueAPIToken(su, ttl)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not issue token")
		return
	}

	h.Audit.TokenIssued(r.Context(), r, u.ID)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"token":      token,
		"token_type": "Bearer",
		"expires_in": int64(ttl / time.Second),
	})
}
