// internal/app/features/calendar/reminders.go
package calendar

import (
	"net/http"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/go-chi/chi/v5"
)

// AddReminder handles POST /calendar/events/{id}/reminders.
func (h *Handler) AddReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		OffsetMinutes int    `json:"offset_minutes"`
		Channel       string `json:"channel"`
	}
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.OffsetMinutes < 0 {
		httpjson.Error(w, http.StatusBadRequest, "offset_minutes must not be negative")
		return
	}
	switch req.Channel {
	case "email", "sms", "in_app":
	default:
		httpjson.Error(w, http.StatusBadRequest, "channel must be email, sms, or in_app")
		return
	}

	rem, err := h.Events.AddReminder(r.Context(), id, req.OffsetMinutes, req.Channel)
	if err != nil {
		writeStoreError(w, h.Log, "add reminder", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "calendar_events", id.Hex(), audit.ActionUpdate,
		[]audit.FieldChange{{Field: "reminders", New: rem.ID}})
	httpjson.Write(w, http.StatusCreated, rem)
}

// RemoveReminder handles DELETE /calendar/events/{id}/reminders/{reminderID}.
func (h *Handler) RemoveReminder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	reminderID := chi.URLParam(r, "reminderID")
	if err := h.Events.RemoveReminder(r.Context(), id, reminderID); err != nil {
		writeStoreError(w, h.Log, "remove reminder", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "calendar_events", id.Hex(), audit.ActionUpdate,
		[]audit.FieldChange{{Field: "reminders", Old: reminderID}})
	httpjson.Write(w, http.StatusOK, map[string]string{"id": reminderID, "message": "reminder removed"})
}
