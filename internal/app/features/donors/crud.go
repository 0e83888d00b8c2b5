// internal/app/features/donors/crud.go
package donors

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	donorstore "github.com/dalemusser/impacthub/internal/app/store/donors"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type donorRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	Type  string `json:"type"` // individual | organization
}

func (req *donorRequest) toModel() models.Donor {
	return models.Donor{
		Name:  sanitize.Text(req.Name),
		Email: req.Email,
		Phone: sanitize.Text(req.Phone),
		Type:  req.Type,
	}
}

// Create handles POST /donors.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req donorRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Name == "" {
		httpjson.Error(w, http.StatusBadRequest, "name is required")
		return
	}
	if req.Type != "" && req.Type != "individual" && req.Type != "organization" {
		httpjson.Error(w, http.StatusBadRequest, "type must be individual or organization")
		return
	}

	created, err := h.Donors.Create(r.Context(), req.toModel())
	if err != nil {
		h.Log.Error("create donor failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create donor")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donors", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, created)
}

// Update handles PUT /donors/{id}. Only the fields present in the body
// change; the running total is never writable through this endpoint.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req donorRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Type != "" && req.Type != "individual" && req.Type != "organization" {
		httpjson.Error(w, http.StatusBadRequest, "type must be individual or organization")
		return
	}

	if err := h.Donors.Update(r.Context(), id, req.toModel()); err != nil {
		writeStoreError(w, h.Log, "update donor", err)
		return
	}
	after, err := h.Donors.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload donor", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donors", id.Hex(), audit.ActionUpdate, nil)
	httpjson.Write(w, http.StatusOK, after)
}

// List handles GET /donors?type=&q=&limit=&offset=, sorted by lifetime
// giving.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := donorstore.ListFilter{
		Type:   q.Get("type"),
		Search: q.Get("q"),
	}

	rows, more, err := h.Donors.List(r.Context(), filter, paging.Parse(r))
	if err != nil {
		h.Log.Error("list donors failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list donors")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"donors":   rows,
		"has_more": more,
	})
}

// Get handles GET /donors/{id}: the donor plus their most recent
// donations.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.Donors.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load donor", err)
		return
	}

	recent, _, err := h.Donations.List(r.Context(), donationstore.ListFilter{DonorID: id}, paging.Parse(r))
	if err != nil {
		h.Log.Error("list donor donations failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load donations")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"donor":     d,
		"donations": recent,
	})
}
