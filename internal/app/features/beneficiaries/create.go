// internal/app/features/beneficiaries/create.go
package beneficiaries

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type beneficiaryRequest struct {
	FirstName   string           `json:"first_name"`
	LastName    string           `json:"last_name"`
	DateOfBirth string           `json:"date_of_birth"` // YYYY-MM-DD
	Gender      string           `json:"gender"`
	State       string           `json:"state"`
	LGA         string           `json:"lga"`
	GPS         *models.GeoPoint `json:"gps"`
}

func (req *beneficiaryRequest) toModel(w http.ResponseWriter) (models.Beneficiary, bool) {
	b := models.Beneficiary{
		FirstName: sanitize.Text(req.FirstName),
		LastName:  sanitize.Text(req.LastName),
		Gender:    req.Gender,
		Address:   models.Address{State: req.State, LGA: sanitize.Text(req.LGA)},
		GPS:       req.GPS,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "date_of_birth must be formatted YYYY-MM-DD")
			return models.Beneficiary{}, false
		}
		b.DateOfBirth = dob
	}
	return b, true
}

// Create handles POST /beneficiaries.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req beneficiaryRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.FirstName == "" || req.LastName == "" || req.State == "" {
		httpjson.Error(w, http.StatusBadRequest, "first_name, last_name and state are required")
		return
	}
	if !scopeAllows(r, req.State) {
		httpjson.Error(w, http.StatusForbidden, "outside your state scope")
		return
	}

	b, ok := req.toModel(w)
	if !ok {
		return
	}
	created, err := h.Beneficiaries.Create(r.Context(), b)
	if err != nil {
		h.Log.Error("create beneficiary failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create beneficiary")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, created)
}

// Update handles PUT /beneficiaries/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req beneficiaryRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}

	before, err := h.Beneficiaries.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load beneficiary", err)
		return
	}
	if !scopeAllows(r, before.Address.State) {
		httpjson.Error(w, http.StatusForbidden, "outside your state scope")
		return
	}
	if req.State != "" && !scopeAllows(r, req.State) {
		httpjson.Error(w, http.StatusForbidden, "cannot move a beneficiary outside your state scope")
		return
	}

	b, ok := req.toModel(w)
	if !ok {
		return
	}
	if err := h.Beneficiaries.Update(r.Context(), id, b); err != nil {
		writeStoreError(w, h.Log, "update beneficiary", err)
		return
	}

	after, err := h.Beneficiaries.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload beneficiary", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", id.Hex(), audit.ActionUpdate, auditChanges(before, after))
	httpjson.Write(w, http.StatusOK, after)
}

// Archive handles DELETE /beneficiaries/{id}: a soft delete that keeps
// the record for history but removes it from listings and tallies.
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	before, err := h.Beneficiaries.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load beneficiary", err)
		return
	}
	if !scopeAllows(r, before.Address.State) {
		httpjson.Error(w, http.StatusForbidden, "outside your state scope")
		return
	}

	if err := h.Beneficiaries.Archive(r.Context(), id); err != nil {
		writeStoreError(w, h.Log, "archive beneficiary", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", id.Hex(), audit.ActionDelete, nil)
	httpjson.Write(w, http.StatusOK, map[string]string{"id": id.Hex(), "status": models.BeneficiaryArchived})
}

type purgeRequest struct {
	Confirm string `json:"confirm"`
}

// Purge handles POST /beneficiaries/{id}/purge: a permanent delete. The
// caller must echo the beneficiary id in the body; a bare DELETE is too
// easy to fire by accident for something with no undo.
func (h *Handler) Purge(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req purgeRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Confirm != id.Hex() {
		httpjson.Error(w, http.StatusBadRequest, "confirm must match the beneficiary id")
		return
	}

	if err := h.Beneficiaries.Delete(r.Context(), id); err != nil {
		writeStoreError(w, h.Log, "delete beneficiary", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", id.Hex(), audit.ActionDelete, nil)
	w.WriteHeader(http.StatusNoContent)
}
