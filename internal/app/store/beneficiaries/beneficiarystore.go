// internal/app/store/beneficiaries/beneficiarystore.go
package beneficiarystore

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

var (
	// ErrNotFound is returned when no beneficiary document matches.
	ErrNotFound = errors.New("beneficiary not found")
	// ErrAlreadyEnrolled is returned when enrolling a beneficiary in a
	// program they already actively participate in.
	ErrAlreadyEnrolled = errors.New("beneficiary is already enrolled in this program")
	// ErrNotEnrolled is returned when withdrawing from a program the
	// beneficiary has no active participation in.
	ErrNotEnrolled = errors.New("beneficiary is not enrolled in this program")
)

// Store manages the beneficiaries collection.
type Store struct {
	c *mongo.Collection
}

// New creates a beneficiary Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("beneficiaries")}
}

// EnsureIndexes creates lookup indexes for state scoping and search.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "address.state", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "full_name_ci", Value: 1}}},
		{Keys: bson.D{{Key: "participations.program_id", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a beneficiary, defaulting status to active.
func (s *Store) Create(ctx context.Context, b models.Beneficiary) (models.Beneficiary, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.FirstName = normalize.Name(b.FirstName)
	b.LastName = normalize.Name(b.LastName)
	b.FullNameCI = text.Fold(b.FirstName + " " + b.LastName)
	b.Address.State = normalize.State(b.Address.State)
	if b.Status == "" {
		b.Status = models.BeneficiaryActive
	}
	b.CreatedAt = now
	b.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Beneficiary{}, err
	}
	return b, nil
}

// GetByID loads a beneficiary by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Beneficiary, error) {
	var b models.Beneficiary
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

// Update modifies a beneficiary's mutable fields and refreshes
// UpdatedAt. Empty fields are left unchanged.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, b models.Beneficiary) error {
	set := bson.M{
		"updated_at": time.Now().UTC(),
	}
	if b.FirstName != "" || b.LastName != "" {
		if b.FirstName != "" {
			set["first_name"] = normalize.Name(b.FirstName)
		}
		if b.LastName != "" {
			set["last_name"] = normalize.Name(b.LastName)
		}
	}
	if b.Gender != "" {
		set["gender"] = normalize.Enum(b.Gender)
	}
	if !b.DateOfBirth.IsZero() {
		set["date_of_birth"] = b.DateOfBirth
	}
	if b.Address.State != "" {
		set["address.state"] = normalize.State(b.Address.State)
	}
	if b.Address.LGA != "" {
		set["address.lga"] = b.Address.LGA
	}
	if b.GPS != nil {
		set["gps"] = b.GPS
	}
	if b.Status != "" {
		set["status"] = normalize.Enum(b.Status)
	}

	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}

	// Names may have changed in either half; refold from the stored doc
	// so the search key stays consistent.
	if b.FirstName != "" || b.LastName != "" {
		cur, err := s.GetByID(ctx, id)
		if err != nil {
			return err
		}
		_, err = s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
			"full_name_ci": text.Fold(cur.FirstName + " " + cur.LastName),
		}})
		return err
	}
	return nil
}

// Archive soft-deletes a beneficiary. Archived beneficiaries drop out
// of listings and dashboard tallies but keep their history.
func (s *Store) Archive(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     models.BeneficiaryArchived,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete permanently removes a beneficiary document. Callers are
// expected to have confirmed the deletion; there is no undo.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Enroll adds an active participation for the program. Enrolling twice
// in the same program is rejected.
func (s *Store) Enroll(ctx context.Context, id, programID primitive.ObjectID) error {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.EnrolledIn(programID) {
		return ErrAlreadyEnrolled
	}
	part := models.Participation{
		ProgramID:  programID,
		EnrolledAt: time.Now().UTC(),
		Status:     "active",
	}
	_, err = s.c.UpdateByID(ctx, id, bson.M{
		"$push": bson.M{"participations": part},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	return err
}

// Withdraw marks the beneficiary's active participation in the program
// as withdrawn.
func (s *Store) Withdraw(ctx context.Context, id, programID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "participations": bson.M{
			"$elemMatch": bson.M{"program_id": programID, "status": "active"},
		}},
		bson.M{"$set": bson.M{
			"participations.$.status": "withdrawn",
			"updated_at":              time.Now().UTC(),
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNotEnrolled
	}
	return nil
}

// AddSpend bumps the denormalized amount-spent counter.
func (s *Store) AddSpend(ctx context.Context, id primitive.ObjectID, amount int64) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$inc": bson.M{"amount_spent": amount},
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

// ListFilter narrows List results. Zero values mean "no restriction".
type ListFilter struct {
	State     string
	Status    string
	ProgramID primitive.ObjectID
	Search    string // folded name prefix
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if f.State != "" {
		q["address.state"] = normalize.State(f.State)
	}
	if f.Status != "" {
		q["status"] = normalize.Enum(f.Status)
	} else {
		q["status"] = bson.M{"$ne": models.BeneficiaryArchived}
	}
	if !f.ProgramID.IsZero() {
		q["participations"] = bson.M{
			"$elemMatch": bson.M{"program_id": f.ProgramID, "status": "active"},
		}
	}
	if f.Search != "" {
		q["full_name_ci"] = bson.M{"$regex": "^" + text.Fold(f.Search)}
	}
	return q
}

// List returns beneficiaries matching the filter, name-sorted, with a
// look-ahead page.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Beneficiary, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "full_name_ci", Value: 1}}).
		SetSkip(page.Offset).
		SetLimit(page.LimitPlusOne())
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var out []models.Beneficiary
	if err := cur.All(ctx, &out); err != nil {
		return nil, false, err
	}
	more := paging.Trim(&out, page)
	return out, more, nil
}

// Count returns the number of beneficiaries matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// CountEnrolled counts active participants of a program.
func (s *Store) CountEnrolled(ctx context.Context, programID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"status": bson.M{"$ne": models.BeneficiaryArchived},
		"participations": bson.M{
			"$elemMatch": bson.M{"program_id": programID, "status": "active"},
		},
	})
}

// AllActive streams every non-archived beneficiary. Used by aggregation
// code that groups in memory.
func (s *Store) AllActive(ctx context.Context) ([]models.Beneficiary, error) {
	cur, err := s.c.Find(ctx, bson.M{"status": bson.M{"$ne": models.BeneficiaryArchived}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Beneficiary
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
