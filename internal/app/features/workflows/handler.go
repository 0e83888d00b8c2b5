// internal/app/features/workflows/handler.go

// Package workflows serves workflow CRUD and step progression. The
// overall status and completion percentage are derived from the step
// statuses on every read, never stored by the handlers.
package workflows

import (
	"errors"
	"net/http"

	workflowstore "github.com/dalemusser/impacthub/internal/app/store/workflows"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for workflow endpoints.
type Handler struct {
	Workflows *workflowstore.Store
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs a workflows Handler.
func NewHandler(workflows *workflowstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Workflows: workflows,
		Audit:     auditLogger,
		Log:       logger,
	}
}

// workflowView is the wire shape for a workflow: the document plus the
// derived completion percentage.
type workflowView struct {
	models.Workflow
	CompletionPercent int `json:"completion_percent"`
}

func view(w models.Workflow) workflowView {
	return workflowView{Workflow: w, CompletionPercent: w.CompletionPercent()}
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
	case errors.Is(err, workflowstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "workflow not found")
	case errors.Is(err, workflowstore.ErrStepNotFound):
		httpjson.Error(w, http.StatusNotFound, "step not found")
	default:
		log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
	}
}
