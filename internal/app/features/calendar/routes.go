// internal/app/features/calendar/routes.go
package calendar

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the calendar subrouter. Any signed-in role can read
// and write events; the scheduling surface is shared by all staff.
// Deleting events is reserved for admins.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Get("/events", h.Range)
	r.Get("/upcoming", h.Upcoming)
	r.Get("/events/{id}", h.Get)
	r.Post("/events", h.Create)
	r.Put("/events/{id}", h.Update)
	r.Post("/events/{id}/reminders", h.AddReminder)
	r.Delete("/events/{id}/reminders/{reminderID}", h.RemoveReminder)

	r.Group(func(r chi.Router) {
		r.Use(sm.RequireRole(authz.RoleNationalAdmin, authz.RoleStateAdmin))
		r.Delete("/events/{id}", h.Delete)
	})
	return r
}
