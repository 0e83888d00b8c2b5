// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler ends the signed-in session.
type Handler struct {
	Sessions *auth.SessionManager
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a logout Handler.
func NewHandler(sessions *auth.SessionManager, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{Sessions: sessions, Audit: auditLogger, Log: logger}
}

// Serve handles POST /auth/logout.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if err := h.Sessions.SignOut(w, r); err != nil {
		h.Log.Warn("sign out failed", zap.Error(err))
	}
	if ok {
		if id, err := primitive.ObjectIDFromHex(u.ID); err == nil {
			h.Audit.Logout(r.Context(), r, id)
		}
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "signed out"})
}
