// internal/app/store/workflows/workflowstore.go
package workflowstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no workflow document matches.
	ErrNotFound = errors.New("workflow not found")
	// ErrStepNotFound is returned when a step id is not on the workflow.
	ErrStepNotFound = errors.New("step not found on workflow")
)

// Store manages the workflows collection.
type Store struct {
	c *mongo.Collection
}

// New creates a workflow Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("workflows")}
}

// EnsureIndexes creates status and name lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updated_at", Value: -1}}},
		{Keys: bson.D{{Key: "name_ci", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a workflow. Step ids are assigned here; the stored
// status is derived from the step statuses.
func (s *Store) Create(ctx context.Context, w models.Workflow) (models.Workflow, error) {
	now := time.Now().UTC()
	w.ID = primitive.NewObjectID()
	w.Name = normalize.Name(w.Name)
	w.NameCI = text.Fold(w.Name)
	for i := range w.Steps {
		w.Steps[i].ID = uuid.NewString()
		if w.Steps[i].Status == "" {
			w.Steps[i].Status = models.StepPending
		}
	}
	w.Status = w.DerivedStatus()
	w.CreatedAt = now
	w.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, w); err != nil {
		return models.Workflow{}, err
	}
	return w, nil
}

// GetByID loads a workflow by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Workflow, error) {
	var w models.Workflow
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&w); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}

// Update modifies name and description.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, w models.Workflow) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if w.Name != "" {
		set["name"] = normalize.Name(w.Name)
		set["name_ci"] = text.Fold(normalize.Name(w.Name))
	}
	if w.Description != "" {
		set["description"] = w.Description
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

// AddStep appends a new pending step and rederives the overall status.
func (s *Store) AddStep(ctx context.Context, id primitive.ObjectID, name, assignee string) (models.WorkflowStep, error) {
	step := models.WorkflowStep{
		ID:       uuid.NewString(),
		Name:     normalize.Name(name),
		Status:   models.StepPending,
		Assignee: assignee,
	}
	w, err := s.GetByID(ctx, id)
	if err != nil {
		return models.WorkflowStep{}, err
	}
	w.Steps = append(w.Steps, step)
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"steps": step},
		"$set": bson.M{
			"status":     w.DerivedStatus(),
			"updated_at": time.Now().UTC(),
		},
	})
	if err != nil {
		return models.WorkflowStep{}, err
	}
	return step, nil
}

// SetStepStatus updates one step's status and rederives the workflow
// status from the full step list. Completing a step stamps CompletedAt.
func (s *Store) SetStepStatus(ctx context.Context, id primitive.ObjectID, stepID, status string) (*models.Workflow, error) {
	status = normalize.Enum(status)
	switch status {
	case models.StepPending, models.StepInProgress, models.StepCompleted:
	default:
		return nil, errors.New("unknown step status: " + status)
	}

	w, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	found := false
	now := time.Now().UTC()
	for i := range w.Steps {
		if w.Steps[i].ID != stepID {
			continue
		}
		found = true
		w.Steps[i].Status = status
		if status == models.StepCompleted {
			w.Steps[i].CompletedAt = &now
		} else {
			w.Steps[i].CompletedAt = nil
		}
	}
	if !found {
		return nil, ErrStepNotFound
	}

	w.Status = w.DerivedStatus()
	w.UpdatedAt = now
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"steps":      w.Steps,
		"status":     w.Status,
		"updated_at": now,
	}})
	if err != nil {
		return nil, err
	}
	return w, nil
}

// RemoveStep deletes a step and rederives the workflow status.
func (s *Store) RemoveStep(ctx context.Context, id primitive.ObjectID, stepID string) error {
	w, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	kept := w.Steps[:0]
	for _, st := range w.Steps {
		if st.ID != stepID {
			kept = append(kept, st)
		}
	}
	if len(kept) == len(w.Steps) {
		return ErrStepNotFound
	}
	w.Steps = kept
	now := time.Now().UTC()
	_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"steps":      w.Steps,
		"status":     w.DerivedStatus(),
		"updated_at": now,
	}})
	return err
}

// Delete removes a workflow by ID.
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
	Search string // folded name prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.Status != "" {
		q["status"] = normalize.Enum(f.Status)
	}
	if f.Search != "" {
		q["name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}
	return q
}

// List returns workflows matching the filter, most recently touched
// first.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Workflow, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "updated_at", Value: -1}}).
		SetSkip(page.Offset).
		SetLimit(page.LimitPlusOne())
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var out []models.Workflow
	if err := cur.All(ctx, &out); err != nil {
		return nil, false, err
	}
	more := paging.Trim(&out, page)
	return out, more, nil
}

// Count returns the number of workflows matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}
