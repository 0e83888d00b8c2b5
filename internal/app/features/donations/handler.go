// internal/app/features/donations/handler.go

// Package donations serves donation recording, status changes and the
// embedded expenditure ledger. Recording a donation bumps the donor's
// running total in the same request.
package donations

import (
	"errors"
	"net/http"

	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	donorstore "github.com/dalemusser/impacthub/internal/app/store/donors"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for donation endpoints.
type Handler struct {
	Donations     *donationstore.Store
	Donors        *donorstore.Store
	Beneficiaries *beneficiarystore.Store
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

// NewHandler constructs a donations Handler.
func NewHandler(donations *donationstore.Store, donors *donorstore.Store, beneficiaries *beneficiarystore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Donations:     donations,
		Donors:        donors,
		Beneficiaries: beneficiaries,
		Audit:         auditLogger,
		Log:           logger,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, donationstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "donation not found")
	case errors.Is(err, donationstore.ErrOverspend):
		httpjson.Error(w, http.StatusConflict, "expenditure exceeds remaining donation balance")
	case errors.Is(err, donationstore.ErrCancelled):
		httpjson.Error(w, http.StatusConflict, "donation is cancelled")
	case errors.Is(err, donationstore.ErrExpenditureNotFound):
		httpjson.Error(w, http.StatusNotFound, "expenditure not found")
	case errors.Is(err, donorstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "donor not found")
	case errors.Is(err, beneficiarystore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "beneficiary not found")
	default:
		log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
	}
}
