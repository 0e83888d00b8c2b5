// internal/app/features/profile/session.go
package profile

import (
	"errors"
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Session handles GET /me: the current user's profile as resolved for
// this request. Because the middleware re-reads the profile document on
// every request, a role change shows up here immediately.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid session identity")
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "profile no longer exists")
			return
		}
		h.Log.Error("load profile failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load profile")
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

// Preferences handles GET /me/preferences.
func (h *Handler) Preferences(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}
	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid session identity")
		return
	}
	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusUnauthorized, "profile no longer exists")
			return
		}
		h.Log.Error("load preferences failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load preferences")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"preferences": u.Preferences,
	})
}

type preferencesRequest struct {
	Theme string `json:"theme"`
}

// UpdatePreferences handles PUT /me/preferences. Preferences persist on
// the user document, so they survive sign-out and follow the user across
// devices.
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request) {
	su, ok := auth.CurrentUser(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req preferencesRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Theme != "light" && req.Theme != "dark" {
		httpjson.Error(w, http.StatusBadRequest, `theme must be "light" or "dark"`)
		return
	}

	id, err := primitive.ObjectIDFromHex(su.ID)
	if err != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid session identity")
		return
	}
	if err := h.Users.UpdatePreferences(r.Context(), id, models.Preferences{Theme: req.Theme}); err != nil {
		h.Log.Error("update preferences failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not save preferences")
		return
	}

	h.Audit.Log(r.Context(), audit.Event{
		Category:  audit.CategoryAuth,
		EventType: audit.EventPreferencesUpdated,
		ActorID:   &id,
		Success:   true,
		Details:   map[string]string{"theme": req.Theme},
	})
	httpjson.Write(w, http.StatusOK, map[string]any{
		"preferences": models.Preferences{Theme: req.Theme},
	})
}
