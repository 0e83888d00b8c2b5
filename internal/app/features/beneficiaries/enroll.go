// internal/app/features/beneficiaries/enroll.go
package beneficiaries

import (
	"errors"
	"net/http"

	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type enrollRequest struct {
	ProgramID string `json:"program_id"`
}

// Enroll handles POST /beneficiaries/{id}/enroll. Only active programs
// accept enrollments, and a beneficiary cannot be enrolled twice in the
// same program. The program's participant counter is refreshed after the
// write.
func (h *Handler) Enroll(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req enrollRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid program id")
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
	if b.Status == models.BeneficiaryArchived {
		httpjson.Error(w, http.StatusConflict, "cannot enroll an archived beneficiary")
		return
	}

	p, err := h.Programs.GetByID(r.Context(), programID)
	if err != nil {
		if errors.Is(err, programstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "program not found")
			return
		}
		h.Log.Error("load program failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load program")
		return
	}
	if p.Status != models.ProgramActive {
		httpjson.Error(w, http.StatusConflict, "program is not accepting enrollments")
		return
	}

	if err := h.Beneficiaries.Enroll(r.Context(), id, programID); err != nil {
		writeStoreError(w, h.Log, "enroll beneficiary", err)
		return
	}
	h.refreshProgramCount(r, programID)

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", id.Hex(), "enroll", nil)
	httpjson.Write(w, http.StatusOK, map[string]string{
		"beneficiary_id": id.Hex(),
		"program_id":     programID.Hex(),
		"status":         "enrolled",
	})
}

// Withdraw handles POST /beneficiaries/{id}/withdraw.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req enrollRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid program id")
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

	if err := h.Beneficiaries.Withdraw(r.Context(), id, programID); err != nil {
		writeStoreError(w, h.Log, "withdraw beneficiary", err)
		return
	}
	h.refreshProgramCount(r, programID)

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "beneficiaries", id.Hex(), "withdraw", nil)
	httpjson.Write(w, http.StatusOK, map[string]string{
		"beneficiary_id": id.Hex(),
		"program_id":     programID.Hex(),
		"status":         "withdrawn",
	})
}

// refreshProgramCount recounts active participants after an enrollment
// change. Best effort: a failed recount is logged, not surfaced, since
// the enrollment itself already committed.
func (h *Handler) refreshProgramCount(r *http.Request, programID primitive.ObjectID) {
	n, err := h.Beneficiaries.CountEnrolled(r.Context(), programID)
	if err == nil {
		err = h.Programs.SetActualBeneficiaries(r.Context(), programID, n)
	}
	if err != nil {
		h.Log.Warn("refresh program participant count failed",
			zap.String("program_id", programID.Hex()),
			zap.Error(err))
	}
}
