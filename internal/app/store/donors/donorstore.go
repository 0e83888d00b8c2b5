// internal/app/store/donors/donorstore.go
package donorstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no donor document matches.
var ErrNotFound = errors.New("donor not found")

// Store manages the donors collection.
type Store struct {
	c *mongo.Collection
}

// New creates a donor Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donors")}
}

// EnsureIndexes creates name lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "total_donated", Value: -1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a donor.
func (s *Store) Create(ctx context.Context, d models.Donor) (models.Donor, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Name = normalize.Name(d.Name)
	d.NameCI = text.Fold(d.Name)
	d.Email = normalize.Email(d.Email)
	if d.Type == "" {
		d.Type = "individual"
	}
	d.TotalDonated = 0
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donor{}, err
	}
	return d, nil
}

// GetByID loads a donor by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donor, error) {
	var d models.Donor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// Update modifies a donor's contact fields.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, d models.Donor) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if d.Name != "" {
		set["name"] = normalize.Name(d.Name)
		set["name_ci"] = text.Fold(normalize.Name(d.Name))
	}
	if d.Email != "" {
		set["email"] = normalize.Email(d.Email)
	}
	if d.Phone != "" {
		set["phone"] = d.Phone
	}
	if d.Type != "" {
		set["type"] = normalize.Enum(d.Type)
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

// AddToTotal bumps the running donation counter. Negative amounts back
// a cancellation out of the total.
func (s *Store) AddToTotal(ctx context.Context, id primitive.ObjectID, amount int64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"total_donated": amount},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Type   string
	Search string // folded name prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Type != "" {
		q["type"] = normalize.Enum(f.Type)
	}
	if f.Search != "" {
		q["name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}
	return q
}

// List returns donors matching the filter, largest total first.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Donor, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "total_donated", Value: -1}, {Key: "name_ci", Value: 1}}).
		SetSkip(page.Offset).
		SetLimit(page.LimitPlusOne())
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var out []models.Donor
	if err := cur.All(ctx, &out); err != nil {
		return nil, false, err
	}
	more := paging.Trim(&out, page)
	return out, more, nil
}

// Count returns the number of donors matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}
