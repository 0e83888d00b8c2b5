// internal/app/features/dashboard/routes.go
package dashboard

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns the dashboard subrouter. Every signed-in role can read
// the dashboard; state-scoped users see scoped counts.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Overview)
	r.Get("/summary", h.Summary)
	r.Get("/donations", h.DonationSeries)
	r.Get("/beneficiaries-by-state", h.BeneficiariesByState)
	r.Get("/program-progress", h.ProgramProgress)
	return r
}
