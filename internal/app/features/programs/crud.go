// internal/app/features/programs/crud.go
package programs

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type programRequest struct {
	Name                string   `json:"name"`
	Type                string   `json:"type"`
	Description         string   `json:"description"`
	StartDate           string   `json:"start_date"` // YYYY-MM-DD
	EndDate             string   `json:"end_date"`   // YYYY-MM-DD
	TargetStates        []string `json:"target_states"`
	BudgetAllocated     int64    `json:"budget_allocated"` // minor units (kobo)
	BudgetCurrency      string   `json:"budget_currency"`
	TargetBeneficiaries int64    `json:"target_beneficiaries"`
}

func (req *programRequest) toModel(w http.ResponseWriter) (models.Program, bool) {
	p := models.Program{
		Name:                sanitize.Text(req.Name),
		Type:                req.Type,
		Description:         sanitize.Text(req.Description),
		TargetStates:        req.TargetStates,
		Budget:              models.Budget{Allocated: req.BudgetAllocated, Currency: req.BudgetCurrency},
		TargetBeneficiaries: req.TargetBeneficiaries,
	}
	var err error
	if req.StartDate != "" {
		if p.StartDate, err = time.Parse("2006-01-02", req.StartDate); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "start_date must be formatted YYYY-MM-DD")
			return models.Program{}, false
		}
	}
	if req.EndDate != "" {
		if p.EndDate, err = time.Parse("2006-01-02", req.EndDate); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "end_date must be formatted YYYY-MM-DD")
			return models.Program{}, false
		}
	}
	return p, true
}

// Create handles POST /programs. New programs start in planning.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req programRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Name == "" || req.Type == "" {
		httpjson.Error(w, http.StatusBadRequest, "name and type are required")
		return
	}
	if req.BudgetAllocated < 0 {
		httpjson.Error(w, http.StatusBadRequest, "budget_allocated must not be negative")
		return
	}

	p, ok := req.toModel(w)
	if !ok {
		return
	}
	created, err := h.Programs.Create(r.Context(), p)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "programs", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, created)
}

// Update handles PUT /programs/{id}: descriptive fields only, never the
// status.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req programRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	p, ok := req.toModel(w)
	if !ok {
		return
	}
	if err := h.Programs.Update(r.Context(), id, p); err != nil {
		writeStoreError(w, h.Log, "update program", err)
		return
	}

	after, err := h.Programs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload program", err)
		return
	}
	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "programs", id.Hex(), audit.ActionUpdate, nil)
	httpjson.Write(w, http.StatusOK, after)
}

// List handles GET /programs?status=&state=&q=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := programstore.ListFilter{
		Status: q.Get("status"),
		State:  q.Get("state"),
		Search: q.Get("q"),
	}
	if scope := authz.UserStateScope(r); scope != "" {
		filter.State = scope
	}

	rows, more, err := h.Programs.List(r.Context(), filter, paging.Parse(r))
	if err != nil {
		h.Log.Error("list programs failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list programs")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"programs": rows,
		"has_more": more,
	})
}

// Get handles GET /programs/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Programs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load program", err)
		return
	}
	httpjson.Write(w, http.StatusOK, p)
}

// Delete handles DELETE /programs/{id}. Only planning programs with no
// enrollments can be removed; anything further along is cancelled via
// the status lifecycle instead, preserving history.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	p, err := h.Programs.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load program", err)
		return
	}
	if p.Status != models.ProgramPlanning {
		httpjson.Error(w, http.StatusConflict, "only planning programs can be deleted; cancel instead")
		return
	}
	enrolled, err := h.Beneficiaries.CountEnrolled(r.Context(), id)
	if err != nil {
		h.Log.Error("count enrollments failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not check enrollments")
		return
	}
	if enrolled > 0 {
		httpjson.Error(w, http.StatusConflict, "program has enrolled beneficiaries")
		return
	}

	if _, err := h.Programs.Delete(r.Context(), id); err != nil {
		writeStoreError(w, h.Log, "delete program", err)
		return
	}
	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "programs", id.Hex(), audit.ActionDelete, nil)
	httpjson.Write(w, http.StatusOK, map[string]string{"id": id.Hex(), "message": "program deleted"})
}
