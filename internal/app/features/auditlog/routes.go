// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the audit query subrouter. Only national admins and
// M&E staff can read the trail.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireRole(authz.AuditReaders...))
	r.Get("/", h.Query)
	r.Get("/recent", h.Recent)
	r.Get("/failed-logins", h.FailedLogins)
	return r
}
