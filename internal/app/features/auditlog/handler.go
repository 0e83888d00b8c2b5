// internal/app/features/auditlog/handler.go

// Package auditlog serves read access to the audit trail. Writes happen
// inside the other features through the audit logger; this surface only
// queries.
package auditlog

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	"github.com/dalemusser/impacthub/internal/app/system/httpjson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler holds the dependencies for audit query endpoints.
type Handler struct {
	Audit *audit.Store
	Log   *zap.Logger
}

// NewHandler constructs an auditlog Handler.
func NewHandler(auditStore *audit.Store, logger *zap.Logger) *Handler {
	return &Handler{Audit: auditStore, Log: logger}
}

// Query handles GET /auditlog?actor=&category=&event_type=&collection=&from=&to=&limit=&offset=.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := audit.QueryFilter{
		Category:   q.Get("category"),
		EventType:  q.Get("event_type"),
		Collection: q.Get("collection"),
	}

	if raw := q.Get("actor"); raw != "" {
		id, err := primitive.ObjectIDFromHex(raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "actor must be a valid id")
			return
		}
		filter.ActorID = &id
	}
	if raw := q.Get("from"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "from must be RFC 3339")
			return
		}
		filter.StartTime = &t
	}
	if raw := q.Get("to"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, "to must be RFC 3339")
			return
		}
		filter.EndTime = &t
	}
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 1 || n > 500 {
			httpjson.Error(w, http.StatusBadRequest, "limit must be between 1 and 500")
			return
		}
		filter.Limit = n
	}
	if raw := q.Get("offset"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			httpjson.Error(w, http.StatusBadRequest, "offset must not be negative")
			return
		}
		filter.Offset = n
	}

	events, err := h.Audit.Query(r.Context(), filter)
	if err != nil {
		h.Log.Error("audit query failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not query audit events")
		return
	}
	total, err := h.Audit.CountByFilter(r.Context(), filter)
	if err != nil {
		h.Log.Error("audit count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not query audit events")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"events": events,
		"total":  total,
	})
}

// Recent handles GET /auditlog/recent?n=: the newest events across all
// categories, for the activity feed.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	n := int64(20)
	if raw := r.URL.Query().Get("n"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 100 {
			httpjson.Error(w, http.StatusBadRequest, "n must be between 1 and 100")
			return
		}
		n = parsed
	}

	events, err := h.Audit.GetRecent(r.Context(), n)
	if err != nil {
		h.Log.Error("recent audit fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load activity")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"events": events})
}

// FailedLogins handles GET /auditlog/failed-logins?hours=: failed sign-in
// attempts over the trailing window.
func (h *Handler) FailedLogins(w http.ResponseWriter, r *http.Request) {
	hours := int64(24)
	if raw := r.URL.Query().Get("hours"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed < 1 || parsed > 24*30 {
			httpjson.Error(w, http.StatusBadRequest, "hours must be between 1 and 720")
			return
		}
		hours = parsed
	}

	since := time.Now().UTC().Add(-time.Duration(hours) * time.Hour)
	events, err := h.Audit.GetFailedLogins(r.Context(), since, 200)
	if err != nil {
		h.Log.Error("failed login fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "could not load failed logins")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{
		"since":  since,
		"events": events,
	})
}
