// internal/app/features/dashboard/overview.go
package dashboard

import (
	"net/http"
	"time"

	metricsstore "github.com/dalemusser/impacthub/internal/app/store/metrics"
	"github.com/dalemusser/impacthub/internal/app/system/aggregate"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.uber.org/zap"
)

const activityFeedSize = 10

type activityItem struct {
	Timestamp time.Time `json:"timestamp"`
	Category  string    `json:"category"`
	EventType string    `json:"event_type"`
	Action    string    `json:"action,omitempty"`
	Entity    string    `json:"entity,omitempty"`
}

// Overview handles GET /dashboard?from=&to=&state=&program=: every
// dashboard figure in one response. A state-scoped user's scope always
// wins over the state query parameter.
func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
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

	state := q.Get("state")
	if scope := authz.UserStateScope(r); scope != "" {
		state = scope
	}
	programID := q.Get("program")

	counts := metricsstore.FetchDashboardCounts(r.Context(), h.DB, state)

	donations, err := h.Donations.InRange(r.Context(), from, to)
	if err != nil {
		h.Log.Error("dashboard donation fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}

	beneficiaries, err := h.Beneficiaries.AllActive(r.Context())
	if err != nil {
		h.Log.Error("dashboard beneficiary fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}
	if state != "" {
		kept := beneficiaries[:0]
		for _, b := range beneficiaries {
			if b.Address.State == state {
				kept = append(kept, b)
			}
		}
		beneficiaries = kept
	}

	programs, err := h.Programs.All(r.Context())
	if err != nil {
		h.Log.Error("dashboard program fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not build dashboard")
		return
	}
	if programID != "" {
		kept := programs[:0]
		for _, p := range programs {
			if p.ID.Hex() == programID {
				kept = append(kept, p)
			}
		}
		programs = kept
	}

	// Activity feed is best-effort: a failed audit read degrades to an
	// empty feed rather than failing the whole dashboard.
	feed := make([]activityItem, 0, activityFeedSize)
	if h.Audit != nil {
		events, err := h.Audit.GetRecent(r.Context(), activityFeedSize)
		if err != nil {
			h.Log.Warn("dashboard activity fetch failed", zap.Error(err))
		}
		for _, e := range events {
			item := activityItem{
				Timestamp: e.Timestamp,
				Category:  e.Category,
				EventType: e.EventType,
				Action:    e.Action,
			}
			if e.Entity != nil {
				item.Entity = e.Entity.Collection
			}
			feed = append(feed, item)
		}
	}

	httpjson.Write(w, http.StatusOK, map[string]any{
		"counts":          counts,
		"donation_totals": aggregate.DonationTotals(donations),
		"monthly_series":  aggregate.MonthlySeries(donations, from, to),
		"states":          aggregate.BeneficiariesByState(beneficiaries),
		"programs":        aggregate.ProgramsProgress(programs),
		"activity":        feed,
		"state_scope":     state,
		"range": map[string]time.Time{
			"from": from,
			"to":   to,
		},
	})
}
