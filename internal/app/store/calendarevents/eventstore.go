// internal/app/store/calendarevents/eventstore.go
package calendareventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no event document matches.
	ErrNotFound = errors.New("calendar event not found")
	// ErrReminderNotFound is returned when a reminder id is not on the
	// event.
	ErrReminderNotFound = errors.New("reminder not found on event")

	errBadRange = errors.New("event end must not be before start")
)

// Store manages the calendar_events collection.
type Store struct {
	c *mongo.Collection
}

// New creates a calendar event Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("calendar_events")}
}

// EnsureIndexes creates the time-range lookup index.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "starts_at", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "starts_at", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts an event. Reminder ids are assigned here.
func (s *Store) Create(ctx context.Context, e models.CalendarEvent) (models.CalendarEvent, error) {
	if !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return models.CalendarEvent{}, errBadRange
	}
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.Type = normalize.Enum(e.Type)
	e.Scope = normalize.Enum(e.Scope)
	if e.Priority == "" {
		e.Priority = "medium"
	}
	e.Priority = normalize.Enum(e.Priority)
	for i := range e.Reminders {
		e.Reminders[i].ID = uuid.NewString()
	}
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.CalendarEvent{}, err
	}
	return e, nil
}

// GetByID loads an event by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.CalendarEvent, error) {
	var e models.CalendarEvent
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update modifies an event's mutable fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.CalendarEvent) error {
	if !e.StartsAt.IsZero() && !e.EndsAt.IsZero() && e.EndsAt.Before(e.StartsAt) {
		return errBadRange
	}
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if e.Title != "" {
		set["title"] = e.Title
	}
	if e.Type != "" {
		set["type"] = normalize.Enum(e.Type)
	}
	if e.Scope != "" {
		set["scope"] = normalize.Enum(e.Scope)
	}
	if e.Priority != "" {
		set["priority"] = normalize.Enum(e.Priority)
	}
	if e.Location != "" {
		set["location"] = e.Location
	}
	if !e.StartsAt.IsZero() {
		set["starts_at"] = e.StartsAt
	}
	if !e.EndsAt.IsZero() {
		set["ends_at"] = e.EndsAt
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddReminder appends a reminder to the event.
func (s *Store) AddReminder(ctx context.Context, id primitive.ObjectID, offsetMinutes int, channel string) (models.Reminder, error) {
	rem := models.Reminder{
		ID:            uuid.NewString(),
		OffsetMinutes: offsetMinutes,
		Channel:       normalize.Enum(channel),
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"reminders": rem},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return models.Reminder{}, err
	}
	if res.MatchedCount == 0 {
		return models.Reminder{}, ErrNotFound
	}
	return rem, nil
}

// RemoveReminder deletes a reminder by its id.
func (s *Store) RemoveReminder(ctx context.Context, id primitive.ObjectID, reminderID string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"reminders": bson.M{"id": reminderID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrReminderNotFound
	}
	return nil
}

// Delete removes an event by ID.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// InRange returns events overlapping [from, to), soonest first.
func (s *Store) InRange(ctx context.Context, from, to time.Time, eventType string) ([]models.CalendarEvent, error) {
	q := bson.M{
		"starts_at": bson.M{"$lt": to},
		"ends_at":   bson.M{"$gte": from},
	}
	if eventType != "" {
		q["type"] = normalize.Enum(eventType)
	}
	cur, err := s.c.Find(ctx, q, options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CalendarEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Upcoming returns the next n events starting at or after now.
func (s *Store) Upcoming(ctx context.Context, now time.Time, n int64) ([]models.CalendarEvent, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"starts_at": bson.M{"$gte": now}},
		options.Find().SetSort(bson.D{{Key: "starts_at", Value: 1}}).SetLimit(n))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.CalendarEvent
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PruneStaleReminders strips reminders from events that ended before
// the cutoff. Run by the background cleanup job.
func (s *Store) PruneStaleReminders(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"ends_at": bson.M{"$lt": cutoff}, "reminders.0": bson.M{"$exists": true}},
		bson.M{"$set": bson.M{"reminders": []models.Reminder{}, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}
