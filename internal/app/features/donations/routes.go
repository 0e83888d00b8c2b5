// internal/app/features/donations/routes.go
package donations

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the donations subrouter. Reads are open to any
// signed-in role; money writes require a finance role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.FinanceWriters...))
		r.Post("/", h.Record)
		r.Put("/{id}/status", h.SetStatus)
		r.Post("/{id}/expenditures", h.AddExpenditure)
		r.Delete("/{id}/expenditures/{expID}", h.RemoveExpenditure)
	})
	return r
}
