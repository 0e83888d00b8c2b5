// internal/app/features/login/handler.go

// Package login serves registration, credential sign-in and API token
// issuance.
package login

import (
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler holds the dependencies for the auth endpoints.
type Handler struct {
	Users    *userstore.Store
	Sessions *auth.SessionManager
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a login Handler.
func NewHandler(users *userstore.Store, sessions *auth.SessionManager, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users:    users,
		Sessions: sessions,
		Audit:    auditLogger,
		Log:      logger,
	}
}

// userResponse is the JSON shape for the signed-in user.
type userResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Role       string `json:"role"`
	StateScope string `json:"state_scope,omitempty"`
}

func sessionUserResponse(u *auth.SessionUser) userResponse {
	return userResponse{
		ID:         u.ID,
		FullName:   u.Name,
		Email:      u.Email,
		Role:       u.Role,
		StateScope: u.StateScope,
	}
}
