// internal/app/store/programs/programstore.go
package programstore

import (
	"context"
	"errors"
	"fmt"
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

var (
	// ErrNotFound is returned when no program document matches.
	ErrNotFound = errors.New("program not found")
	// ErrBadTransition is returned when a status change is not allowed
	// from the program's current status.
	ErrBadTransition = errors.New("program status transition not allowed")

	errBadDates = errors.New("program end date must not be before start date")
)

// Store manages the programs collection.
type Store struct {
	c *mongo.Collection
}

// New creates a program Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("programs")}
}

// EnsureIndexes creates status and name lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "start_date", Value: -1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "target_states", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a program in planning status.
func (s *Store) Create(ctx context.Context, p models.Program) (models.Program, error) {
	if !p.EndDate.IsZero() && p.EndDate.Before(p.StartDate) {
		return models.Program{}, errBadDates
	}
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.Name = normalize.Name(p.Name)
	p.NameCI = text.Fold(p.Name)
	p.Budget.Currency = normalize.Currency(p.Budget.Currency)
	for i, st := range p.TargetStates {
		p.TargetStates[i] = normalize.State(st)
	}
	if p.Status == "" {
		p.Status = models.ProgramPlanning
	}
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Program{}, err
	}
	return p, nil
}

// GetByID loads a program by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Program, error) {
	var p models.Program
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update modifies a program's descriptive fields. Status changes go
// through Transition, not here.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, p models.Program) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if p.Name != "" {
		set["name"] = normalize.Name(p.Name)
		set["name_ci"] = text.Fold(normalize.Name(p.Name))
	}
	if p.Type != "" {
		set["type"] = normalize.Enum(p.Type)
	}
	if p.Description != "" {
		set["description"] = p.Description
	}
	if !p.StartDate.IsZero() {
		set["start_date"] = p.StartDate
	}
	if !p.EndDate.IsZero() {
		set["end_date"] = p.EndDate
	}
	if p.TargetStates != nil {
		for i, st := range p.TargetStates {
			p.TargetStates[i] = normalize.State(st)
		}
		set["target_states"] = p.TargetStates
	}
	if p.Budget.Allocated > 0 {
		set["budget.allocated"] = p.Budget.Allocated
	}
	if p.Budget.Currency != "" {
		set["budget.currency"] = normalize.Currency(p.Budget.Currency)
	}
	if p.TargetBeneficiaries > 0 {
		set["target_beneficiaries"] = p.TargetBeneficiaries
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

// Transition moves a program to a new status, enforcing the lifecycle.
// The update is conditional on the stored status so concurrent
// transitions cannot skip a state.
func (s *Store) Transition(ctx context.Context, id primitive.ObjectID, to string) error {
	to = normalize.Enum(to)
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !models.ValidProgramTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, p.Status, to)
	}
	if p.Status == to {
		return nil
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "status": p.Status},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%w: status changed concurrently", ErrBadTransition)
	}
	return nil
}

// SetActualBeneficiaries refreshes the enrolled-participant counter.
func (s *Store) SetActualBeneficiaries(ctx context.Context, id primitive.ObjectID, n int64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"actual_beneficiaries": n,
		"updated_at":           time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a program. Only planning programs with no enrollments
// should reach here; handlers enforce that.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListFilter narrows List results.
type ListFilter struct {
	Status string
	State  string // matches target_states membership
	Search string // folded name prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = normalize.Enum(f.Status)
	}
	if f.State != "" {
		q["target_states"] = normalize.State(f.State)
	}
	if f.Search != "" {
		q["name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}
	return q
}

// List returns programs matching the filter, newest start date first.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Program, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "start_date", Value: -1}}).
		SetSkip(page.Offset).
		SetLimit(page.LimitPlusOne())
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var out []models.Program
	if err := cur.All(ctx, &out); err != nil {
		return nil, false, err
	}
	more := paging.Trim(&out, page)
	return out, more, nil
}

// Count returns the number of programs matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// All returns every program. Used by dashboard aggregation.
func (s *Store) All(ctx context.Context) ([]models.Program, error) {
	cur, err := s.c.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Program
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
