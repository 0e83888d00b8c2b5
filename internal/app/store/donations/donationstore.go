// internal/app/store/donations/donationstore.go
package donationstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/app/system/paging"
	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	// ErrNotFound is returned when no donation document matches.
	ErrNotFound = errors.New("donation not found")
	// ErrOverspend is returned when an expenditure would push the spent
	// total past the donation amount.
	ErrOverspend = errors.New("expenditure exceeds remaining donation balance")
	// ErrExpenditureNotFound is returned when removing an expenditure id
	// that is not on the donation.
	ErrExpenditureNotFound = errors.New("expenditure not found on donation")
	// ErrCancelled is returned when recording spend against a cancelled
	// donation.
	ErrCancelled = errors.New("donation is cancelled")

	errBadAmount = errors.New("amount must be positive")
)

// Store manages the donations collection.
type Store struct {
	c *mongo.Collection
}

// New creates a donation Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("donations")}
}

// EnsureIndexes creates donor and period lookup indexes.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "donor_id", Value: 1}, {Key: "received_at", Value: -1}}},
		{Keys: bson.D{{Key: "received_at", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Create inserts a donation with any embedded expenditures in a single
// write, so a spend can never land without its donation. The caller
// bumps the donor's running total after a successful insert.
func (s *Store) Create(ctx context.Context, d models.Donation) (models.Donation, error) {
	if d.Amount <= 0 {
		return models.Donation{}, errBadAmount
	}
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.Currency = normalize.Currency(d.Currency)
	d.Method = normalize.Enum(d.Method)
	if d.Status == "" {
		d.Status = models.DonationPending
	}
	if d.ReceivedAt.IsZero() {
		d.ReceivedAt = now
	}
	var spent int64
	for i := range d.Expenditures {
		e := &d.Expenditures[i]
		if e.Amount <= 0 {
			return models.Donation{}, errBadAmount
		}
		e.ID = uuid.NewString()
		e.Category = normalize.Enum(e.Category)
		if e.Date.IsZero() {
			e.Date = now
		}
		spent += e.Amount
	}
	if spent > d.Amount {
		return models.Donation{}, ErrOverspend
	}
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		return models.Donation{}, err
	}
	return d, nil
}

// GetByID loads a donation by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Donation, error) {
	var d models.Donation
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &d, nil
}

// SetStatus moves a donation between pending, confirmed and cancelled.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	status = normalize.Enum(status)
	switch status {
	case models.DonationPending, models.DonationConfirmed, models.DonationCancelled:
	default:
		return errors.New("unknown donation status: " + status)
	}
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
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

// AddExpenditure appends a spend record to the donation. The balance
// guard is enforced in the update filter itself: the push only matches
// when the current spent total leaves room for the new amount, so two
// concurrent spends cannot jointly overdraw the donation.
func (s *Store) AddExpenditure(ctx context.Context, id primitive.ObjectID, e models.Expenditure) (models.Expenditure, error) {
	if e.Amount <= 0 {
		return models.Expenditure{}, errBadAmount
	}
	e.ID = uuid.NewString()
	e.Category = normalize.Enum(e.Category)
	if e.Date.IsZero() {
		e.Date = time.Now().UTC()
	}

	d, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Expenditure{}, err
	}
	if d.Status == models.DonationCancelled {
		return models.Expenditure{}, ErrCancelled
	}

	filter := bson.M{
		"_id": id,
		"$expr": bson.M{"$lte": bson.A{
			bson.M{"$add": bson.A{
				bson.M{"$sum": "$expenditures.amount"},
				e.Amount,
			}},
			"$amount",
		}},
	}
	res, err := s.c.UpdateOne(ctx, filter, bson.M{
		"$push": bson.M{"expenditures": e},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return models.Expenditure{}, err
	}
	if res.MatchedCount == 0 {
		return models.Expenditure{}, ErrOverspend
	}
	return e, nil
}

// RemoveExpenditure deletes a spend record by its id.
func (s *Store) RemoveExpenditure(ctx context.Context, id primitive.ObjectID, expenditureID string) error {
	res, err := s.c.UpdateByID(ctx, id, bson.M{
		"$pull": bson.M{"expenditures": bson.M{"id": expenditureID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	if res.ModifiedCount == 0 {
		return ErrExpenditureNotFound
	}
	return nil
}

// ListFilter narrows List results.
type ListFilter struct {
	DonorID primitive.ObjectID
	Status  string
	From    time.Time // inclusive, on received_at
	To      time.Time // exclusive
}

func (f ListFilter) query() bson.M {
	q := bson.M{}
	if !f.DonorID.IsZero() {
		q["donor_id"] = f.DonorID
	}
	if f.Status != "" {
		q["status"] = normalize.Enum(f.Status)
	}
	if !f.From.IsZero() || !f.To.IsZero() {
		rng := bson.M{}
		if !f.From.IsZero() {
			rng["$gte"] = f.From
		}
		if !f.To.IsZero() {
			rng["$lt"] = f.To
		}
		q["received_at"] = rng
	}
	return q
}

// List returns donations matching the filter, newest first.
func (s *Store) List(ctx context.Context, f ListFilter, page paging.Page) ([]models.Donation, bool, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "received_at", Value: -1}}).
		SetSkip(page.Offset).
		SetLimit(page.LimitPlusOne())
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, false, err
	}
	defer cur.Close(ctx)

	var out []models.Donation
	if err := cur.All(ctx, &out); err != nil {
		return nil, false, err
	}
	more := paging.Trim(&out, page)
	return out, more, nil
}

// Count returns the number of donations matching the filter.
func (s *Store) Count(ctx context.Context, f ListFilter) (int64, error) {
	return s.c.CountDocuments(ctx, f.query())
}

// InRange streams donations received within [from, to). Used by
// dashboards and report generation.
func (s *Store) InRange(ctx context.Context, from, to time.Time) ([]models.Donation, error) {
	cur, err := s.c.Find(ctx, ListFilter{From: from, To: to}.query(),
		options.Find().SetSort(bson.D{{Key: "received_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Donation
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
