// internal/app/features/programs/transition.go
package programs

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
)

type transitionRequest struct {
	Status string `json:"status"`
}

// Transition handles PUT /programs/{id}/status. Invalid jumps (planning
// straight to completed, edits to a terminal program) are refused with a
// 409 naming the attempted move.
func (h *Handler) Transition(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req transitionRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Status == "" {
		httpjson.Error(w, http.StatusBadRequest, "status is required")
		return
	}

	before, err := h.Programs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load program", err)
		return
	}

	if err := h.Programs.Transition(r.Context(), id, req.Status); err != nil {
		writeStoreError(w, h.Log, "transition program", err)
		return
	}

	after, err := h.Programs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload program", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "programs", id.Hex(), audit.ActionUpdate,
		auditlog.AppendChange(nil, "status", before.Status, after.Status))
	httpjson.Write(w, http.StatusOK, after)
}
