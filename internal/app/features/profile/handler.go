// internal/app/features/profile/handler.go

// Package profile serves the signed-in user's own view: session info and
// UI preferences.
package profile

import (
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"go.uber.org/zap"
)

// Handler holds the dependencies for profile endpoints.
type Handler struct {
	Users *userstore.Store
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewHandler constructs a profile Handler.
func NewHandler(users *userstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Audit: auditLogger, Log: logger}
}
