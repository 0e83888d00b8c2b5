// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/impacthub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// WithChiURLParam adds a chi URL parameter to the request context for
// handler tests that read chi.URLParam values. Calls chain: an existing
// route context on the request keeps its earlier parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateDonor inserts a donor and returns it.
func (f *Fixtures) CreateDonor(ctx context.Context, name string) models.Donor {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donor{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Type:      "organization",
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("donors").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("create test donor: %v", err)
	}
	return d
}

// CreateProgram inserts an active program and returns it.
func (f *Fixtures) CreateProgram(ctx context.Context, name string, states ...string) models.Program {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Program{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Type:         "cash_transfer",
		StartDate:    now.AddDate(0, -1, 0),
		EndDate:      now.AddDate(0, 6, 0),
		TargetStates: states,
		Budget:       models.Budget{Allocated: 10_000_000, Currency: "NGN"},
		Status:       models.ProgramActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection("programs").InsertOne(ctx, p); err != nil {
		f.t.Fatalf("create test program: %v", err)
	}
	return p
}

// CreateBeneficiary inserts an active beneficiary in the given state.
func (f *Fixtures) CreateBeneficiary(ctx context.Context, firstName, lastName, state, lga string) models.Beneficiary {
	f.t.Helper()

	now := time.Now().UTC()
	b := models.Beneficiary{
		ID:          primitive.NewObjectID(),
		FirstName:   firstName,
		LastName:    lastName,
		FullNameCI:  text.Fold(firstName + " " + lastName),
		DateOfBirth: time.Date(1990, 4, 12, 0, 0, 0, 0, time.UTC),
		Gender:      "female",
		Address:     models.Address{State: state, LGA: lga},
		Status:      models.BeneficiaryActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := f.db.Collection("beneficiaries").InsertOne(ctx, b); err != nil {
		f.t.Fatalf("create test beneficiary: %v", err)
	}
	return b
}

// CreateDonation inserts a donation for the donor.
func (f *Fixtures) CreateDonation(ctx context.Context, donorID primitive.ObjectID, amount int64, status string, received time.Time) models.Donation {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Donation{
		ID:         primitive.NewObjectID(),
		DonorID:    donorID,
		Amount:     amount,
		Currency:   "NGN",
		Method:     "bank_transfer",
		Status:     status,
		ReceivedAt: received,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("donations").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("create test donation: %v", err)
	}
	return d
}

// CreateWorkflow inserts a workflow with the given step statuses.
func (f *Fixtures) CreateWorkflow(ctx context.Context, name string, stepStatuses ...string) models.Workflow {
	f.t.Helper()

	now := time.Now().UTC()
	w := models.Workflow{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Status:    models.StepPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for i, ss := range stepStatuses {
		w.Steps = append(w.Steps, models.WorkflowStep{
			ID:     uuid.NewString(),
			Name:   "Step " + string(rune('A'+i)),
			Status: ss,
		})
	}
	w.Status = w.DerivedStatus()
	if _, err := f.db.Collection("workflows").InsertOne(ctx, w); err != nil {
		f.t.Fatalf("create test workflow: %v", err)
	}
	return w
}
