// internal/app/features/donors/handler.go

// Package donors serves donor CRUD and the per-donor giving summary.
package donors

import (
	"errors"
	"net/http"

	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	donorstore "github.com/dalemusser/impacthub/internal/app/store/donors"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for donor endpoints.
type Handler struct {
	Donors    *donorstore.Store
	Donations *donationstore.Store
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs a donors Handler.
func NewHandler(donors *donorstore.Store, donations *donationstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Donors:    donors,
		Donations: donations,
		Audit:     auditLogger,
		Log:       logger,
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
	if errors.Is(err, donorstore.ErrNotFound) {
		httpjson.Error(w, http.StatusNotFound, "donor not found")
		return
	}
	log.Error(op+" failed", zap.Error(err))
	httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
}
