// internal/app/features/profile/routes.go
package profile

import "github.com/go-chi/chi/v5"

// Routes returns the signed-in user's subrouter, mounted under /me.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Session)
	r.Get("/preferences", h.Preferences)
	r.Put("/preferences", h.UpdatePreferences)
	return r
}
