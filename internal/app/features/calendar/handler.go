// internal/app/features/calendar/handler.go

// Package calendar serves scheduled events: field visits,
// distributions, meetings, and deadlines, with embedded reminders.
package calendar

import (
	"errors"
	"net/http"

	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for calendar endpoints.
type Handler struct {
	Events *calendareventstore.Store
	Audit  *auditlog.Logger
	Log    *zap.Logger
}

// NewHandler constructs a calendar Handler.
func NewHandler(events *calendareventstore.Store, auditLogger *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Events: events,
		Audit:  auditLogger,
		Log:    logger,
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, calendareventstore.ErrNotFound):
		httpjson.Error(w, http.StatusNotFound, "event not found")
	case errors.Is(err, calendareventstore.ErrReminderNotFound):
		httpjson.Error(w, http.StatusNotFound, "reminder not found")
	default:
		log.Error(op+" failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not "+op)
	}
}
