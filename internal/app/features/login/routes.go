// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes returns the public auth subrouter: registration, sign-in and
// token exchange take credentials, not a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
	r.Post("/token", h.Token)
	return r
}
