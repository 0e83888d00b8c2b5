package metricsstore

import (
	"context"

	"github.com/dalemusser/impacthub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// Counts is the set of headline totals on the dashboard.
type Counts struct {
	Beneficiaries  int64 `json:"beneficiaries"`
	ActivePrograms int64 `json:"active_programs"`
	Donors         int64 `json:"donors"`
	Donations      int64 `json:"donations"`
	OpenWorkflows  int64 `json:"open_workflows"`
}

// FetchDashboardCounts returns the high-level counts used by the
// dashboard. Intentionally tolerant: on error it returns 0 for that
// counter. When state is non-empty, beneficiary and program counts are
// scoped to it.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database, state string) Counts {
	var out Counts

	// beneficiaries (archived excluded)
	benFilter := bson.M{"status": bson.M{"$ne": models.BeneficiaryArchived}}
	if state != "" {
		benFilter["address.state"] = state
	}
	if n, err := db.Collection("beneficiaries").CountDocuments(ctx, benFilter); err == nil {
		out.Beneficiaries = n
	}

	// active programs
	progFilter := bson.M{"status": models.ProgramActive}
	if state != "" {
		progFilter["target_states"] = state
	}
	if n, err := db.Collection("programs").CountDocuments(ctx, progFilter); err == nil {
		out.ActivePrograms = n
	}

	// donors
	if n, err := db.Collection("donors").CountDocuments(ctx, bson.M{}); err == nil {
		out.Donors = n
	}

	// donations (cancelled excluded)
	if n, err := db.Collection("donations").CountDocuments(ctx, bson.M{
		"status": bson.M{"$ne": models.DonationCancelled},
	}); err == nil {
		out.Donations = n
	}

	// workflows not yet completed
	if n, err := db.Collection("workflows").CountDocuments(ctx, bson.M{
		"status": bson.M{"$ne": models.StepCompleted},
	}); err == nil {
		out.OpenWorkflows = n
	}

	return out
}
