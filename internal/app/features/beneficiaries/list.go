// internal/app/features/beneficiaries/list.go
package beneficiaries

import (
	"errors"
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// List handles GET /beneficiaries?state=&status=&program=&q=&limit=&offset=.
// State-scoped users are pinned to their own state regardless of the
// query parameter.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := beneficiarystore.ListFilter{
		State:  q.Get("state"),
		Status: q.Get("status"),
		Search: q.Get("q"),
	}
	if scope := authz.UserStateScope(r); scope != "" {
		filter.State = scope
	}
	if s := q.Get("program"); s != "" {
		pid, err := primitive.ObjectIDFromHex(s)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "invalid program id")
			return
		}
		filter.ProgramID = pid
	}

	page := paging.Parse(r)
	rows, more, err := h.Beneficiaries.List(r.Context(), filter, page)
	if err != nil {
		h.Log.Error("list beneficiaries failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list beneficiaries")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"beneficiaries": rows,
		"has_more":      more,
	})
}

// Get handles GET /beneficiaries/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	b, err := h.Beneficiaries.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load beneficiary", err)
		return
	}
	if !scopeAllows(r, b.Address.State) {
		httpjson.Error(w, http.StatusForbidden, "outside your state scope")
		return
	}
	httpjson.Write(w, http.StatusOK, b)
}

func writeStoreError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, beneficiarystore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "beneficiary not found")
	case errors.Is(err, beneficiarystore.ErrAlreadyEnrolled):
		httpjson.Error(w, http.StatusConflict, "beneficiary is already enrolled in this program")
	case errors.Is(err, beneficiarystore.ErrNotEnrolled):
		httpjson.Error(w, http.StatusConflict, "beneficiary is not enrolled in this program")
	default:
		log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
	}
}

// auditChanges diffs the fields administrators care about in the audit
// trail.
func auditChanges(before, after *models.Beneficiary) []audit.FieldChange {
	var changes []audit.FieldChange
	changes = auditlog.AppendChange(changes, "first_name", before.FirstName, after.FirstName)
	changes = auditlog.AppendChange(changes, "last_name", before.LastName, after.LastName)
	changes = auditlog.AppendChange(changes, "gender", before.Gender, after.Gender)
	changes = auditlog.AppendChange(changes, "state", before.Address.State, after.Address.State)
	changes = auditlog.AppendChange(changes, "lga", before.Address.LGA, after.Address.LGA)
	changes = auditlog.AppendChange(changes, "status", before.Status, after.Status)
	return changes
}
