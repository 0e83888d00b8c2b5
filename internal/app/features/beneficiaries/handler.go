// internal/app/features/beneficiaries/handler.go

// Package beneficiaries serves beneficiary registration, program
// enrollment and listing. Reads and writes are state-scoped: a
// state_admin or field_officer only sees and touches their own state.
package beneficiaries

import (
	"net/http"

	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for beneficiary endpoints.
type Handler struct {
	Beneficiaries *beneficiarystore.Store
	Programs      *programstore.Store
	Audit         *auditlog.Logger
	Log           *zap.Logger
}

// NewHandler constructs a beneficiaries Handler.
func NewHandler(beneficiaries *beneficiarystore.Store, programs *programstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Beneficiaries: beneficiaries,
		Programs:      programs,
		Audit:         auditLogger,
		Log:           logger,
	}
}

// scopeAllows reports whether the signed-in user may touch records in
// the given state. National-level roles have no state restriction.
func scopeAllows(r *http.Request, state string) bool {
	scope := authz.UserStateScope(r)
	return scope == "" || scope == state
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}
