package calendar_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/impacthub/internal/app/features/calendar"
	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/impacthub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T, db *mongo.Database) *calendar.Handler {
	t.Helper()
	return calendar.NewHandler(calendareventstore.New(db), nil, zap.NewNop())
}

func TestCreate_DefaultsPriorityAndStampsCreator(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	user := testutil.StateAdmin("Kano")

	starts := time.Now().UTC().Add(24 * time.Hour).Truncate(time.Second)
	req := testutil.NewJSONRequest(t, "POST", "/calendar/events", map[string]any{
		"title":     "Kano distribution",
		"type":      "distribution",
		"scope":     "state",
		"starts_at": starts.Format(time.RFC3339),
	})
	rec := httptest.NewRecorder()
	h.Create(rec, testutil.WithUser(req, user))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got models.CalendarEvent
	testutil.DecodeJSON(t, rec, &got)
	if got.Priority != "medium" {
		t.Errorf("priority: got %q, want medium default", got.Priority)
	}
	if !got.EndsAt.Equal(got.StartsAt) {
		t.Errorf("ends_at should default to starts_at")
	}
	if got.CreatedBy.Hex() != user.ID {
		t.Errorf("created_by: got %s, want actor", got.CreatedBy.Hex())
	}
}

func TestCreate_RejectsInvertedRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	now := time.Now().UTC()
	req := testutil.NewJSONRequest(t, "POST", "/calendar/events", map[string]any{
		"title":     "Backwards",
		"type":      "meeting",
		"starts_at": now.Format(time.RFC3339),
		"ends_at":   now.Add(-time.Hour).Format(time.RFC3339),
	})
	rec := httptest.NewRecorder()
	h.Create(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestRange_ReturnsOverlappingEvents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	store := calendareventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	mk := func(title string, starts, ends time.Time) {
		t.Helper()
		_, err := store.Create(ctx, models.CalendarEvent{
			Title:    title,
			Type:     "visit",
			StartsAt: starts,
			EndsAt:   ends,
		})
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
	}
	mk("inside", base, base.Add(2*time.Hour))
	mk("straddles start", base.Add(-24*time.Hour), base.Add(time.Hour))
	mk("before window", base.Add(-72*time.Hour), base.Add(-48*time.Hour))
	mk("after window", base.Add(30*24*time.Hour), base.Add(31*24*time.Hour))

	from := base.Add(-time.Hour)
	to := base.Add(7 * 24 * time.Hour)
	req := testutil.NewJSONRequest(t, "GET",
		"/calendar/events?from="+from.Format(time.RFC3339)+"&to="+to.Format(time.RFC3339), nil)
	rec := httptest.NewRecorder()
	h.Range(rec, testutil.WithUser(req, testutil.NationalAdmin()))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d; body=%s", rec.Code, rec.Body.String())
	}

	var got struct {
		Events []models.CalendarEvent `json:"events"`
	}
	testutil.DecodeJSON(t, rec, &got)
	if len(got.Events) != 2 {
		t.Fatalf("events: got %d, want 2", len(got.Events))
	}
	if got.Events[0].Title != "straddles start" {
		t.Errorf("expected soonest first, got %q", got.Events[0].Title)
	}
}

func TestReminders_AddAndRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	store := calendareventstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	ev, err := store.Create(ctx, models.CalendarEvent{
		Title:    "Field visit",
		Type:     "visit",
		StartsAt: time.Now().UTC().Add(48 * time.Hour),
		EndsAt:   time.Now().UTC().Add(50 * time.Hour),
	})
	if err != nil {
		t.Fatalf("create event: %v", err)
	}

	req := testutil.NewJSONRequest(t, "POST", "/calendar/events/"+ev.ID.Hex()+"/reminders",
		map[string]any{"offset_minutes": 60, "channel": "email"})
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.NationalAdmin()), "id", ev.ID.Hex())
	rec := httptest.NewRecorder()
	h.AddReminder(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add: got %d; body=%s", rec.Code, rec.Body.String())
	}
	var rem models.Reminder
	testutil.DecodeJSON(t, rec, &rem)
	if rem.ID == "" {
		t.Fatal("reminder missing id")
	}

	req = testutil.NewJSONRequest(t, "DELETE",
		"/calendar/events/"+ev.ID.Hex()+"/reminders/"+rem.ID, nil)
	req = testutil.WithUser(req, testutil.NationalAdmin())
	req = testutil.WithChiURLParam(req, "id", ev.ID.Hex())
	req = testutil.WithChiURLParam(req, "reminderID", rem.ID)
	rec = httptest.NewRecorder()
	h.RemoveReminder(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("remove: got %d; body=%s", rec.Code, rec.Body.String())
	}

	after, err := store.GetByID(ctx, ev.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(after.Reminders) != 0 {
		t.Errorf("reminders: got %d, want 0", len(after.Reminders))
	}
}

func TestAddReminder_BadChannel(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, "POST", "/calendar/events/64a000000000000000000000/reminders",
		map[string]any{"offset_minutes": 60, "channel": "pigeon"})
	req = testutil.WithChiURLParam(testutil.WithUser(req, testutil.NationalAdmin()), "id", "64a000000000000000000000")
	rec := httptest.NewRecorder()
	h.AddReminder(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}
