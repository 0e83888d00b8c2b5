// internal/app/features/users/handler.go

// Package users is the administrator's user-management surface: listing
// accounts, assigning roles, toggling activation, and deleting accounts.
package users

import (
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler holds the dependencies for user administration.
type Handler struct {
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a users Handler.
func NewHandler(users *userstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Audit: auditLogger, Log: logger}
}
