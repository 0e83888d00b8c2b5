// internal/app/features/reports/routes.go
package reports

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the reports subrouter. Any signed-in role can read;
// regeneration is limited to admin, finance, and M&E staff.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{period}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.RoleNationalAdmin, authz.RoleFinance, authz.RoleME))
		r.Post("/{period}/run", h.Generate)
	})
	return r
}
