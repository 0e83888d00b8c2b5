// internal/app/features/calendar/events.go
package calendar

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"github.com/dalemusser/impacthub/internal/app/system/sanitize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.uber.org/zap"
)

type eventRequest struct {
	Title    string `json:"title"`
	Type     string `json:"type"`     // visit | distribution | meeting | deadline
	Scope    string `json:"scope"`    // national | state | program
	Priority string `json:"priority"` // low | medium | high
	Location string `json:"location"`
	StartsAt string `json:"starts_at"` // RFC 3339
	EndsAt   string `json:"ends_at"`   // RFC 3339
	AllDay   bool   `json:"all_day"`
}

func (req *eventRequest) toModel(w http.ResponseWriter) (models.CalendarEvent, bool) {
	e := models.CalendarEvent{
		Title:    sanitize.Text(req.Title),
		Type:     req.Type,
		Scope:    req.Scope,
		Priority: req.Priority,
		Location: sanitize.Text(req.Location),
		AllDay:   req.AllDay,
	}
	var err error
	if req.StartsAt != "" {
		if e.StartsAt, err = time.Parse(time.RFC3339, req.StartsAt); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "starts_at must be RFC 3339")
			return models.CalendarEvent{}, false
		}
	}
	if req.EndsAt != "" {
		if e.EndsAt, err = time.Parse(time.RFC3339, req.EndsAt); err != nil {
			httpjson.Error(w, http.StatusBadRequest, "ends_at must be RFC 3339")
			return models.CalendarEvent{}, false
		}
	}
	if !e.StartsAt.IsZero() && !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		httpjson.Error(w, http.StatusBadRequest, "ends_at must not precede starts_at")
		return models.CalendarEvent{}, false
	}
	return e, true
}

// Create handles POST /calendar/events.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	if req.Title == "" || req.StartsAt == "" {
		httpjson.Error(w, http.StatusBadRequest, "title and starts_at are required")
		return
	}
	e, ok := req.toModel(w)
	if !ok {
		return
	}
	if e.EndsAt.IsZero() {
		e.EndsAt = e.StartsAt
	}
	_, _, actorID, _ := authz.UserCtx(r)
	e.CreatedBy = actorID

	created, err := h.Events.Create(r.Context(), e)
	if err != nil {
		h.Log.Error("create event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not create event")
		return
	}

	h.Audit.DataWrite(r.Context(), r, actorID, "calendar_events", created.ID.Hex(), audit.ActionCreate, nil)
	httpjson.Write(w, http.StatusCreated, created)
}

// Update handles PUT /calendar/events/{id}. Only the fields present in
// the body change.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req eventRequest
	if !httpjson.DecodeOrError(w, r, &req) {
		return
	}
	e, ok := req.toModel(w)
	if !ok {
		return
	}

	if err := h.Events.Update(r.Context(), id, e); err != nil {
		writeStoreError(w, h.Log, "update event", err)
		return
	}
	after, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "reload event", err)
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "calendar_events", id.Hex(), audit.ActionUpdate, nil)
	httpjson.Write(w, http.StatusOK, after)
}

// Get handles GET /calendar/events/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	e, err := h.Events.GetByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, h.Log, "load event", err)
		return
	}
	httpjson.Write(w, http.StatusOK, e)
}

// Delete handles DELETE /calendar/events/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	n, err := h.Events.Delete(r.Context(), id)
	if err != nil {
		h.Log.Error("delete event failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not delete event")
		return
	}
	if n == 0 {
		httpjson.Error(w, http.StatusNotFound, "event not found")
		return
	}

	_, _, actorID, _ := authz.UserCtx(r)
	h.Audit.DataWrite(r.Context(), r, actorID, "calendar_events", id.Hex(), audit.ActionDelete, nil)
	httpjson.Write(w, http.StatusOK, map[string]string{"id": id.Hex(), "message": "event deleted"})
}

// Range handles GET /calendar/events?from=&to=&type=: events overlapping
// the window, soonest first. A month view asks for its first and last
// day.
func (h *Handler) Range(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	from, err := time.Parse(time.RFC3339, q.Get("from"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "from must be RFC 3339")
		return
	}
	to, err := time.Parse(time.RFC3339, q.Get("to"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "to must be RFC 3339")
		return
	}
	if !to.After(from) {
		httpjson.Error(w, http.StatusBadRequest, "to must be after from")
		return
	}

	events, err := h.Events.InRange(r.Context(), from, to, q.Get("type"))
	if err != nil {
		h.Log.Error("range query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": events})
}

const defaultUpcoming = 10

// Upcoming handles GET /calendar/upcoming?n=: the next events from now.
func (h *Handler) Upcoming(w http.ResponseWriter, r *http.Request) {
	n := int64(defaultUpcoming)
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			httpjson.Error(w, http.StatusBadRequest, "n must be between 1 and 100")
			return
		}
		n = parsed
	}

	events, err := h.Events.Upcoming(r.Context(), time.Now().UTC(), n)
	if err != nil {
		h.Log.Error("upcoming query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not list events")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": events})
}
