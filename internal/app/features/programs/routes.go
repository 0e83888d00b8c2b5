// internal/app/features/programs/routes.go
package programs

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the programs subrouter. Reads are open to any signed-in
// role; writes require a field-data role.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.FieldWriters...))
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Put("/{id}/status", h.Transition)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
