// internal/app/features/users/routes.go
package users

import "github.com/go-chi/chi/v5"

// Routes returns the user-administration subrouter. The caller mounts it
// behind RequireRole(national_admin).
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/{id}", h.Get)
	r.Put("/{id}/role", h.SetRole)
	r.Put("/{id}/active", h.SetActive)
	r.Delete("/{id}", h.Delete)
	return r
}
