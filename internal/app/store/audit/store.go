// internal/app/store/audit/store.go
package audit

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
	CategoryData  = "data"
)

// Auth event types.
const (
	EventLoginSuccess         = "login_success"
	EventLoginFailedNotFound  = "login_failed_user_not_found"
	EventLoginFailedPassword  = "login_failed_wrong_password"
	EventLoginFailedNoProfile = "login_failed_profile_missing"
	EventLoginFailedInactive  = "login_failed_user_inactive"
	EventLogout               = "logout"
	EventTokenIssued          = "token_issued"
	EventUserRegistered       = "user_registered"
	EventPreferencesUpdated   = "preferences_updated"
)

// Admin event types.
const (
	EventUserPromoted    = "user_promoted"
	EventUserActivated   = "user_activated"
	EventUserDeactivated = "user_deactivated"
	EventUserDeleted     = "user_deleted"
)

// Data actions recorded for domain collection writes.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// collectionName is where events are stored. Writes about this collection
// are refused so audit logging can never recurse into itself.
const collectionName = "audit_events"

// ErrSelfAudit is returned when an event targets the audit collection.
var ErrSelfAudit = errors.New("refusing to audit the audit collection")

// FieldChange is a field-level diff captured on updates.
type FieldChange struct {
	Field string `bson:"field" json:"field"`
	Old   string `bson:"old,omitempty" json:"old,omitempty"`
	New   string `bson:"new,omitempty" json:"new,omitempty"`
}

// EntityRef names the document an event is about.
type EntityRef struct {
	Collection string `bson:"collection" json:"collection"`
	ID         string `bson:"id" json:"id"`
}

// Event is an append-only audit record.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`

	// ActorID is who performed the action; nil for anonymous attempts.
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"`

	// Entity and Action are set for data-category events.
	Entity  *EntityRef    `bson:"entity,omitempty" json:"entity,omitempty"`
	Action  string        `bson:"action,omitempty" json:"action,omitempty"`
	Changes []FieldChange `bson:"changes,omitempty" json:"changes,omitempty"`

	IP        string `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// QueryFilter defines filters for querying audit events.
type QueryFilter struct {
	ActorID    *primitive.ObjectID
	Category   string
	EventType  string
	Collection string
	StartTime  *time.Time
	EndTime    *time.Time
	Limit      int64
	Offset     int64
}

// Store manages audit event records.
type Store struct {
	c *mongo.Collection
}

// New creates a new audit Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(collectionName)}
}

// EnsureIndexes creates the indexes used by audit queries.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "timestamp", Value: -1}}},
		{Keys: bson.D{
			{Key: "actor_id", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "category", Value: 1},
			{Key: "event_type", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
		{Keys: bson.D{
			{Key: "entity.collection", Value: 1},
			{Key: "timestamp", Value: -1},
		}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Log records an audit event. Events about the audit collection itself
// are refused to avoid recursion.
func (s *Store) Log(ctx context.Context, event Event) error {
	if event.Entity != nil && event.Entity.Collection == collectionName {
		return ErrSelfAudit
	}
	if event.ID.IsZero() {
		event.ID = primitive.NewObjectID()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_, err := s.c.InsertOne(ctx, event)
	return err
}

func (f QueryFilter) query() bson.M {
	query := bson.M{}
	if f.ActorID != nil {
		query["actor_id"] = f.ActorID
	}
	if f.Category != "" {
		query["category"] = f.Category
	}
	if f.EventType != "" {
		query["event_type"] = f.EventType
	}
	if f.Collection != "" {
		query["entity.collection"] = f.Collection
	}
	if f.StartTime != nil || f.EndTime != nil {
		timeQuery := bson.M{}
		if f.StartTime != nil {
			timeQuery["$gte"] = *f.StartTime
		}
		if f.EndTime != nil {
			timeQuery["$lte"] = *f.EndTime
		}
		query["timestamp"] = timeQuery
	}
	return query
}

// Query retrieves audit events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit).
		SetSkip(filter.Offset)

	cursor, err := s.c.Find(ctx, filter.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// CountByFilter returns the count of events matching the filter.
func (s *Store) CountByFilter(ctx context.Context, filter QueryFilter) (int64, error) {
	return s.c.CountDocuments(ctx, filter.query())
}

// GetRecent retrieves the most recent audit events; the dashboard feeds
// its activity list from this.
func (s *Store) GetRecent(ctx context.Context, limit int64) ([]Event, error) {
	return s.Query(ctx, QueryFilter{Limit: limit})
}

// GetFailedLogins retrieves recent failed login attempts.
func (s *Store) GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]Event, error) {
	query := bson.M{
		"category": CategoryAuth,
		"success":  false,
		"event_type": bson.M{
			"$in": []string{
				EventLoginFailedNotFound,
				EventLoginFailedPassword,
				EventLoginFailedNoProfile,
				EventLoginFailedInactive,
			},
		},
		"timestamp": bson.M{"$gte": since},
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.c.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []Event
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}
