// internal/app/features/reports/handler.go

// Package reports serves the monthly donation summaries: listing,
// lookup by period, and on-demand generation.
package reports

import (
	"errors"
	"net/http"
	"strconv"

	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler holds the dependencies for report endpoints.
type Handler struct {
	Reports   *reportstore.Store
	Generator *reporting.Generator
	Audit     *auditlog.Logger
	Log       *zap.Logger
}

// NewHandler constructs a reports Handler.
func NewHandler(reports *reportstore.Store, gen *reporting.Generator, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Reports:   reports,
		Generator: gen,
		Audit:     auditLogger,
		Log:       logger,
	}
}

// List handles GET /reports?limit=: stored reports, newest period first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := int64(24)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 200 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		limit = parsed
	}

	rows, err := h.Reports.List(r.Context(), limit)
	if err != nil {
		h.Log.Error("list reports failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list reports")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"reports": rows})
}

// Get handles GET /reports/{period}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	rep, err := h.Reports.GetByPeriod(r.Context(), period)
	if err != nil {
		if errors.Is(err, reportstore.ErrNotFound) {
			httpjson.Error(w, http.StatusNotFound, "no report for period "+period)
			return
		}
		h.Log.Error("load report failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load report")
		return
	}
	httpjson.Write(w, http.StatusOK, rep)
}

// Generate handles POST /reports/{period}/generate: builds or rebuilds
// the period's report from the donation records. Safe to repeat; the
// report is keyed by period.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	period := chi.URLParam(r, "period")
	_, _, actorID, _ := authz.UserCtx(r)

	rep, err := h.Generator.Generate(r.Context(), period, actorID.Hex())
	if err != nil {
		if errors.Is(err, reporting.ErrBadPeriod) {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("generate report failed", zap.String("period", period), zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not generate report")
		return
	}

	h.Audit.AdminAction(r.Context(), r, "report_generated", actorID, rep.ID, nil)
	httpjson.Write(w, http.StatusOK, rep)
}
