// internal/app/features/workflows/steps.go
package workflows

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// AddStep handles POST /workflows/{id}/steps.
func (h *Handler) AddStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Name     string `json:"name"`
		Assignee string `json:"assignee"`
	}
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	step, err := h.Workflows.AddStep(r.Context(), id, sanitize.Text(req.Name), sanitize.Text(req.Assignee))
	if err != nil {
		writeStoreError(w, h.Log, "add step", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", id.Hex(), audit.ActionUpdate,
		[]audit.FieldChange{{Field: "steps", New: step.Name}})
	httpjson.Write(w, http.StatusCreated, step)
}

// SetStepStatus handles PUT /workflows/{id}/steps/{stepID}/status.
// Completing the last pending step completes the workflow.
func (h *Handler) SetStepStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "stepID")
	var req struct {
		Status string `json:"status"`
	}
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	switch req.Status {
	case models.StepPending, models.StepInProgress, models.StepCompleted:
	default:
		httpjson.Error(w, http.StatusBadRequest, "status must be pending, in_progress, or completed")
		return
	}

	wf, err := h.Workflows.SetStepStatus(r.Context(), id, stepID, req.Status)
	if err != nil {
		writeStoreError(w, h.Log, "update step", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", id.Hex(), audit.ActionUpdate,
		[]audit.FieldChange{{Field: "steps." + stepID + ".status", New: req.Status}})
	httpjson.Write(w, http.StatusOK, view(*wf))
}

// RemoveStep handles DELETE /workflows/{id}/steps/{stepID}.
func (h *Handler) RemoveStep(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	stepID := chi.URLParam(r, "stepID")
	if err := h.Workflows.RemoveStep(r.Context(), id, stepID); err != nil {
		writeStoreError(w, h.Log, "remove step", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", id.Hex(), audit.ActionUpdate,
		[]audit.FieldChange{{Field: "steps", Old: stepID}})
	httpjson.Write(w, http.StatusOK, map[string]string{"id": stepID, "message": "step removed"})
}
