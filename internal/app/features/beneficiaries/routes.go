// internal/app/features/beneficiaries/routes.go
package beneficiaries

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the beneficiaries subrouter. Individual records carry
// PII, so even reads are staff-only; the donor role sees beneficiary
// figures through the dashboard aggregates instead.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.StaffRoles...))
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.FieldWriters...))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Archive)
		r.Post("/{id}/enroll", h.Enroll)
		r.Post("/{id}/withdraw", h.Withdraw)
	})

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.RoleNationalAdmin))
		r.Post("/{id}/purge", h.Purge)
	})
	return r
}
