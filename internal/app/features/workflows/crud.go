// internal/app/features/workflows/crud.go
package workflows

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	workflowstore "github.com/dalemusser/impacthub/internal/app/store/workflows"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type workflowRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []struct {
		Name     string `json:"name"`
		Assignee string `json:"assignee"`
	} `json:"steps"`
}

// Create handles POST /workflows. Steps start pending; ids are assigned
// server-side.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req workflowRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	wf := models.Workflow{
		Name:        sanitize.Text(req.Name),
		Description: sanitize.Text(req.Description),
	}
	for _, s := range req.Steps {
		if s.Name == "" {
			httpjson.Error(w, http.StatusBadRequest, "every step needs a name")
			return
		}
		wf.Steps = append(wf.Steps, models.WorkflowStep{
			Name:     sanitize.Text(s.Name),
			Assignee: sanitize.Text(s.Assignee),
		})
	}

	created, err := h.Workflows.Create(r.Context(), wf)
	if err != nil {
		h.Log.Error("create workflow failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create workflow")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, view(created))
}

// Update handles PUT /workflows/{id}: name and description only. Step
// changes go through the step endpoints so the derived status stays
// consistent.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req workflowRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if len(req.Steps) > 0 {
		httpjson.Error(w, http.StatusBadRequest, "steps are managed through the step endpoints")
		return
	}

	wf := models.Workflow{
		Name:        sanitize.Text(req.Name),
		Description: sanitize.Text(req.Description),
	}
	if err := h.Workflows.Update(r.Context(), id, wf); err != nil {
		writeStoreError(w, h.Log, "update workflow", err)
		return
	}
	after, err := h.Workflows.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload workflow", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", id.Hex(), audit.ActionUpdate, nil)
	httpjson.Write(w, http.StatusOK, view(*after))
}

// List handles GET /workflows?status=&q=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := workflowstore.ListFilter{
		Status: q.Get("status"),
		Search: q.Get("q"),
	}

	rows, more, err := h.Workflows.List(r.Context(), filter, paging.Parse(r))
	if err != nil {
		h.Log.Error("list workflows failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list workflows")
		return
	}
	views := make([]workflowView, 0, len(rows))
	for _, wf := range rows {
		views = append(views, view(wf))
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"workflows": views,
		"has_more":  more,
	})
}

// Get handles GET /workflows/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	wf, err := h.Workflows.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load workflow", err)
		return
	}
	httpjson.Write(w, http.StatusOK, view(*wf))
}

// Delete handles DELETE /workflows/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.Workflows.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete workflow failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete workflow")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "workflow not found")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "workflows", id.Hex(), audit.ActionDelete, nil)
	httpjson.Write(w, http.StatusOK, map[string]string{"id": id.Hex(), "message": "workflow deleted"})
}
