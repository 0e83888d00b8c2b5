// internal/app/features/users/manage.go
package users

import (
	"errors"
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type roleRequest struct {
	Role       string `json:"role"`
	StateScope string `json:"state_scope"`
}

// SetRole handles PUT /users/{id}/role: the manual promotion step that
// turns a pending registration into a usable account, and the way
// existing accounts change roles. The change takes effect on the
// target's next request because profiles are re-read per request.
func (h *Handler) SetRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req roleRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}

	before, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeUserStoreError(w, h.Log, "load user", err)
		return
	}

	if err := h.Users.UpdateRole(r.Context(), id, req.Role, req.StateScope); err != nil {
		if errors.Is(err, userstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	var changes []audit.FieldChange
	changes = auditlog.AppendChange(changes, "role", before.Role, req.Role)
	changes = auditlog.AppendChange(changes, "state_scope", before.StateScope, req.StateScope)
	h.Audit.AdminAction(r.Context(), r, audit.EventUserPromoted, actorID, id, changes)

	u, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeUserStoreError(w, h.Log, "reload user", err)
		return
	}
	httpjson.Write(w, http.StatusOK, u)
}

type activeRequest struct {
	Active bool `json:"active"`
}

// SetActive handles PUT /users/{id}/active.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req activeRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}

	before, err := h.Users.GetByID(r.Context(), id)
	if err != nil {
		writeUserStoreError(w, h.Log, "load user", err)
		return
	}
	if err := h.Users.SetActive(r.Context(), id, req.Active); err != nil {
		writeUserStoreError(w, h.Log, "set active", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	eventType := audit.EventUserDeactivated
	if req.Active {
		eventType = audit.EventUserActivated
	}
	h.Audit.AdminAction(r.Context(), r, eventType, actorID, id,
		auditlog.AppendChangeBool(nil, "active", before.Active, req.Active))

	httpjson.Write(w, http.StatusOK, map[string]any{"id": id.Hex(), "active": req.Active})
}

// Delete handles DELETE /users/{id}. Administrators cannot delete
// themselves; deactivation is the reversible path.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	_, _, actorID, _ := authz.UserCtx(r)
	if actorID == id {
		httpjson.Error(w, http.StatusBadRequest, "cannot delete your own account")
		return
	}

	n, err := h.Users.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete user failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete user")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}

	h.Audit.AdminAction(r.Context(), r, audit.EventUserDeleted, actorID, id, nil)
	httpjson.Write(w, http.StatusOK, map[string]string{"id": id.Hex(), "message": "user deleted"})
}

func writeUserStoreError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	if errors.Is(err, userstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "user not found")
		return
	}
	log.Error(op+" failed", zap.Error(err))
	httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
}
