// internal/app/store/reports/reportstore.go
package reportstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no report matches the period.
var ErrNotFound = errors.New("report not found")

// Store manages the reports collection.
type Store struct {
	c *mongo.Collection
}

// New creates a report Store.
func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("reports")}
}

// EnsureIndexes creates the unique period index that makes report
// generation idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "period", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

// Upsert writes a report for its period, replacing any existing one.
// Regeneration overwrites the totals but keeps the original CreatedAt.
func (s *Store) Upsert(ctx context.Context, rep models.Report) (models.Report, error) {
	now := time.Now().UTC()
	rep.GeneratedAt = now
	rep.UpdatedAt = now

	res := s.c.FindOneAndUpdate(ctx,
		bson.M{"period": rep.Period},
		bson.M{
			"$set": bson.M{
				"total_amount":     rep.TotalAmount,
				"confirmed_amount": rep.ConfirmedAmount,
				"donation_count":   rep.DonationCount,
				"currency":         rep.Currency,
				"generated_at":     rep.GeneratedAt,
				"generated_by":     rep.GeneratedBy,
				"updated_at":       rep.UpdatedAt,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"period":     rep.Period,
				"created_at": now,
			},
		},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	)
	var out models.Report
	if err := res.Decode(&out); err != nil {
		return models.Report{}, err
	}
	return out, nil
}

// GetByPeriod loads the report for a YYYY-MM period.
func (s *Store) GetByPeriod(ctx context.Context, period string) (*models.Report, error) {
	var rep models.Report
	if err := s.c.FindOne(ctx, bson.M{"period": period}).Decode(&rep); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rep, nil
}

// List returns reports newest period first.
func (s *Store) List(ctx context.Context, limit int64) ([]models.Report, error) {
	opts := options.Find().SetSort(bson.D{{Key: "period", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	cur, err := s.c.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Report
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
