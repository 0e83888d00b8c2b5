// internal/app/features/dashboard/handler.go

// Package dashboard serves the summary surface: headline counts,
// donation totals and time series, beneficiary distribution by state,
// and per-program reach. Every figure is recomputed from the source
// collections on request; nothing here is cached or stored.
package dashboard

import (
	"net/http"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	metricsstore "github.com/dalemusser/impacthub/internal/app/store/metrics"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	"github.com/dalemusser/impacthub/internal/app/system/aggregate"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler holds the dependencies for dashboard endpoints.
type Handler struct {
	DB            *mongo.Database
	Beneficiaries *beneficiarystore.Store
	Programs      *programstore.Store
	Donations     *donationstore.Store
	Audit         *audit.Store
	Log           *zap.Logger
}

// NewHandler constructs a dashboard Handler.
func NewHandler(db *mongo.Database, beneficiaries *beneficiarystore.Store, programs *programstore.Store, donations *donationstore.Store, auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{
		DB:            db,
		Beneficiaries: beneficiaries,
		Programs:      programs,
		Donations:     donations,
		Audit:         auditStore,
		Log:           logger,
	}
}

// Summary handles GET /dashboard/summary: headline counts plus donation
// totals for the trailing twelve months. State-scoped users see their
// state's counts.
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	scope := authz.UserStateScope(r)
	counts := metricsstore.FetchDashboardCounts(r.Context(), h.DB, scope)

	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
	donations, err := h.Donations.InRange(r.Context(), from, now)
	if err != nil {
		h.Log.Error("dashboard donation fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"beneficiaries":   counts.Beneficiaries,
		"active_programs": counts.ActivePrograms,
		"donors":          counts.Donors,
		"donations":       counts.Donations,
		"open_workflows":  counts.OpenWorkflows,
		"donation_totals": aggregate.DonationTotals(donations),
		"state_scope":     scope,
	})
}

// DonationSeries handles GET /dashboard/donations?from=&to=: a monthly
// donation series with zero-filled gaps. Defaults to the trailing
// twelve months.
func (h *Handler) DonationSeries(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	from := now.AddDate(-1, 0, 0)
	to := now

	q := r.URL.Query()
	var err error
	if raw := q.Get("from"); raw != "" {
		if from, err = time.Parse(time.RFC3339, raw); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
	}
	if raw := q.Get("to"); raw != "" {
		if to, err = time.Parse(time.RFC3339, raw); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
	}
	if to.Before(from) {
		httpjson.Error(w, http.StatusBadRequest, "to must not precede from")
		return
	}

	donations, err := h.Donations.InRange(r.Context(), from, to)
	if err != nil {
		h.Log.Error("donation series fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build series")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"series": aggregate.MonthlySeries(donations, from, to),
	})
}

// BeneficiariesByState handles GET /dashboard/beneficiaries-by-state.
func (h *Handler) BeneficiariesByState(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Beneficiaries.AllActive(r.Context())
	if err != nil {
		h.Log.Error("beneficiary fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build distribution")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"states": aggregate.BeneficiariesByState(rows),
	})
}

// ProgramProgress handles GET /dashboard/program-progress: target versus
// actual beneficiary reach per program.
func (h *Handler) ProgramProgress(w http.ResponseWriter, r *http.Request) {
	rows, err := h.Programs.All(r.Context())
	if err != nil {
		h.Log.Error("program fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build progress")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"programs": aggregate.ProgramsProgress(rows),
	})
}
