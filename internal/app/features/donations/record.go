// internal/app/features/donations/record.go
package donations

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type donationRequest struct {
	DonorID      string               `json:"donor_id"`
	Amount       int64                `json:"amount"` // minor units (kobo)
	Currency     string               `json:"currency"`
	Method       string               `json:"method"`
	Status       string               `json:"status"`
	ReceivedAt   string               `json:"received_at"` // RFC 3339, optional
	Expenditures []expenditureRequest `json:"expenditures"`
}

// Record handles POST /donations. Expenditures supplied here land in the
// same insert as the donation, so there is no window where a spend
// exists without its donation. The donor's running total is bumped right
// after the insert; a failed bump is surfaced in logs and the next
// report regeneration reconciles the figure from source.
func (h *Handler) Record(w http.ResponseWriter, r *http.Request) {
	var req donationRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	donorID, err := primitive.ObjectIDFromHex(req.DonorID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid donor_id")
		return
	}
	if req.Amount <= 0 {
		httpjson.Error(w, http.StatusBadRequest, "amount must be positive")
		return
	}
	if req.Currency == "" {
		httpjson.Error(w, http.StatusBadRequest, "currency is required")
		return
	}

	if _, err := h.Donors.GetByID(r.Context(), donorID); err != nil {
		writeStoreError(w, h.Log, "load donor", err)
		return
	}

	d := models.Donation{
		DonorID:  donorID,
		Amount:   req.Amount,
		Currency: req.Currency,
		Method:   req.Method,
		Status:   req.Status,
	}
	if req.ReceivedAt != "" {
		if d.ReceivedAt, err = time.Parse(time.RFC3339, req.ReceivedAt); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "received_at must be RFC 3339")
			return
		}
	}

	var spent int64
	for i := range req.Expenditures {
		e, ok := req.Expenditures[i].toModel(w)
		if !ok {
			return
		}
		if e.BeneficiaryID != nil {
			if _, err := h.Beneficiaries.GetByID(r.Context(), *e.BeneficiaryID); err != nil {
				writeStoreError(w, h.Log, "load beneficiary", err)
				return
			}
		}
		spent += e.Amount
		d.Expenditures = append(d.Expenditures, e)
	}
	if spent > d.Amount {
		httpjson.Error(w, http.StatusBadRequest, "expenditures exceed the donation amount")
		return
	}

	created, err := h.Donations.Create(r.Context(), d)
	if err != nil {
		writeStoreError(w, h.Log, "record donation", err)
		return
	}
	for _, e := range created.Expenditures {
		h.bumpBeneficiarySpend(r, e, +1)
	}

	if created.Status != models.DonationCancelled {
		if err := h.Donors.AddToTotal(r.Context(), donorID, created.Amount); err != nil {
			h.Log.Error("bump donor total failed",
				zap.String("donor_id", donorID.Hex()),
				zap.Error(err))
		}
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donations", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, created)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetStatus handles PUT /donations/{id}/status. Moving in or out of
// cancelled adjusts the donor's running total so cancelled money never
// counts.
func (h *Handler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}

	before, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load donation", err)
		return
	}

	if err := h.Donations.SetStatus(r.Context(), id, req.Status); err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	after, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload donation", err)
		return
	}

	var delta int64
	switch {
	case before.Status != models.DonationCancelled && after.Status == models.DonationCancelled:
		delta = -before.Amount
	case before.Status == models.DonationCancelled && after.Status != models.DonationCancelled:
		delta = after.Amount
	}
	if delta != 0 {
		if err := h.Donors.AddToTotal(r.Context(), after.DonorID, delta); err != nil {
			h.Log.Error("adjust donor total failed", zap.Error(err))
		}
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "donations", id.Hex(), audit.ActionUpdate,
		auditlog.AppendChange(nil, "status", before.Status, after.Status))
	httpjson.Write(w, http.StatusOK, after)
}

// List handles GET /donations?donor=&status=&from=&to=&limit=&offset=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := donationstore.ListFilter{Status: q.Get("status")}
	if s := q.Get("donor"); s != "" {
		donorID, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid donor id")
			return
		}
		filter.DonorID = donorID
	}
	var err error
	if s := q.Get("from"); s != "" {
		if filter.From, err = time.Parse("2006-01-02", s); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "from must be formatted YYYY-MM-DD")
			return
		}
	}
	if s := q.Get("to"); s != "" {
		if filter.To, err = time.Parse("2006-01-02", s); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "to must be formatted YYYY-MM-DD")
			return
		}
	}

	rows, more, err := h.Donations.List(r.Context(), filter, paging.Parse(r))
	if err != nil {
		h.Log.Error("list donations failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list donations")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"donations": rows,
		"has_more":  more,
	})
}

// Get handles GET /donations/{id}. The response includes the derived
// balance alongside the raw document.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	d, err := h.Donations.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load donation", err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"donation":          d,
		"spent_total":       d.SpentTotal(),
		"balance_remaining": d.BalanceRemaining(),
	})
}
