// internal/app/features/programs/handler.go

// Package programs serves program CRUD and the status lifecycle
// (planning -> active -> completed, with cancellation from either
// non-terminal state).
package programs

import (
	"errors"
	"net/http"

	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for program endpoints.
type Handler struct {
	Programs      *programstore.Store
	Beneficiaries *beneficiarystore.Store
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

// NewHandler constructs a programs Handler.
func NewHandler(programs *programstore.Store, beneficiaries *beneficiarystore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Programs:      programs,
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
	case errors.Is(err, programstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "program not found")
	case errors.Is(err, programstore.ErrBadTransition):
		httpjson.Error(w, http.StatusConflict, err.Error())
	default:
		log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
	}
}
