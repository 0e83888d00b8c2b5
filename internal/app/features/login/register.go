// internal/app/features/login/register.go
package login

import (
	"errors"
	"net/http"

	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"go.uber.org/zap"
)

const minPasswordLen = 8

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /auth/register. The new account is created with
// no role and inactive; an administrator has to promote it before it can
// sign in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	req.FullName = sanitize.Text(req.FullName)
	if req.FullName == "" || req.Email == "" {
		httpjson.Error(w, http.StatusBadRequest, "full_name and email are required")
		return
	}
	if len(req.Password) < minPasswordLen {
		httpjson.Errorf(w, http.StatusBadRequest, "password must be at least %d characters", minPasswordLen)
		return
	}

	u, err := h.Users.Register(r.Context(), req.FullName, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httpjson.Error(w, http.StatusConflict, "an account with this email already exists")
			return
		}
		h.Log.Error("register failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create account")
		return
	}

	h.Audit.Registered(r.Context(), r, u.ID, u.Email)
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"id":      u.ID.Hex(),
		"email":   u.Email,
		"message": "account created; awaiting role assignment by an administrator",
	})
}
