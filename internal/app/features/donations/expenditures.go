// internal/app/features/donations/expenditures.go
package donations

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type expenditureRequest struct {
	Amount        int64  `json:"amount"` // minor units (kobo)
	Category      string `json:"category"`
	Date          string `json:"date"` // YYYY-MM-DD, optional
	Note          string `json:"note"`
	BeneficiaryID string `json:"beneficiary_id"` // optional
}

func (req *expenditureRequest) toModel(w http.ResponseWriter) (models.Expenditure, bool) {
	if req.Amount <= 0 {
		httpjson.Error(w, http.StatusBadRequest, "amount must be positive")
		return models.Expenditure{}, false
	}
	if req.Category == "" {
		httpjson.Error(w, http.StatusBadRequest, "category is required")
		return models.Expenditure{}, false
	}
	e := models.Expenditure{
		Amount:   req.Amount,
		Category: req.Category,
		Note:     sanitize.Text(req.Note),
	}
	if req.Date != "" {
		d, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return models.Expenditure{}, false
		}
		e.Date = d
	}
	if req.BeneficiaryID != "" {
		id, err := primitive.ObjectIDFromHex(req.BeneficiaryID)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid beneficiary_id")
			return models.Expenditure{}, false
		}
		e.BeneficiaryID = &id
	}
	return e, true
}

// bumpBeneficiarySpend keeps the beneficiary's denormalized amount-spent
// counter in step with an expenditure change. Best-effort like the donor
// total: a failure is logged, and reports recompute from source.
func (h *Handler) bumpBeneficiarySpend(r *http.Request, e models.Expenditure, sign int64) {
	if e.BeneficiaryID == nil {
		return
	}
	if err := h.Beneficiaries.AddSpend(r.Context(), *e.BeneficiaryID, sign*e.Amount); err != nil {
		h.Log.Error("bump beneficiary spend failed",
			zap.String("beneficiary_id", e.BeneficiaryID.Hex()),
			zap.Error(err))
	}
}

// AddExpenditure handles POST /donations/{id}/expenditures. The store's
// balance guard makes overspending impossible even under concurrent
// requests, so the handler only validates shape.
func (h *Handler) AddExpenditure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req expenditureRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	e, ok := req.toModel(w)
	if !ok {
		return
	}
	if e.BeneficiaryID != nil {
		if _, err := h.Beneficiaries.GetByID(r.Context(), *e.BeneficiaryID); err != nil {
			writeStoreError(w, h.Log, "load beneficiary", err)
			return
		}
	}

	created, err := h.Donations.AddExpenditure(r.Context(), id, e)
	if err != nil {
		writeStoreError(w, h.Log, "add expenditure", err)
		return
	}
	h.bumpBeneficiarySpend(r, created, +1)

	d, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload donation", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donations", id.Hex(), "expenditure_add", nil)
	httpjson.Write(w, http.StatusCreated, map[string]any{
		"expenditure":       created,
		"balance_remaining": d.BalanceRemaining(),
	})
}

// RemoveExpenditure handles DELETE /donations/{id}/expenditures/{expID}.
func (h *Handler) RemoveExpenditure(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	expID := chi.URLParam(r, "expID")
	if expID == "" {
		httpjson.Error(w, http.StatusBadRequest, "missing expenditure id")
		return
	}

	// The record is needed before the pull so a beneficiary-linked spend
	// can be reversed out of the amount-spent counter.
	before, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load donation", err)
		return
	}
	var removed models.Expenditure
	for _, e := range before.Expenditures {
		if e.ID == expID {
			removed = e
			break
		}
	}

	if err := h.Donations.RemoveExpenditure(r.Context(), id, expID); err != nil {
		writeStoreError(w, h.Log, "remove expenditure", err)
		return
	}
	h.bumpBeneficiarySpend(r, removed, -1)

	d, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload donation", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donations", id.Hex(), "expenditure_remove", nil)
	httpjson.Write(w, http.StatusOK, map[string]any{
		"id":                id.Hex(),
		"balance_remaining": d.BalanceRemaining(),
	})
}
