// internal/app/features/workflows/routes.go
package workflows

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the workflows subrouter. Reads are open to any
// signed-in role; structural changes require a program-management role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.RoleNationalAdmin, authz.RoleStateAdmin, authz.RoleME))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
		r.Post("/{id}/steps", h.AddStep)
		r.Put("/{id}/steps/{stepID}/status", h.SetStepStatus)
		r.Delete("/{id}/steps/{stepID}", h.RemoveStep)
	})
	return r
}
