// internal/app/system/reporting/reporting.go

// Package reporting builds the monthly donation summaries. The same
// generator is shared by the scheduler job, the reports API and the
// maintenance CLI, so a report looks identical no matter who asked for
// it.
package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	"github.com/dalemusser/impacthub/internal/app/system/aggregate"
	"github.com/dalemusser/impacthub/internal/app/system/normalize"
	"github.com/dalemusser/impacthub/internal/domain/models"
)

// GeneratedByScheduler marks reports produced by the background job.
const GeneratedByScheduler = "scheduler"

// ErrBadPeriod is returned for a period that is not YYYY-MM.
var ErrBadPeriod = errors.New("period must be formatted YYYY-MM")

// Generator produces and stores monthly reports.
type Generator struct {
	donations *donationstore.Store
	reports   *reportstore.Store
	currency  string
}

// NewGenerator creates a report Generator. currency is the reporting
// currency recorded on every report.
func NewGenerator(donations *donationstore.Store, reports *reportstore.Store, currency string) *Generator {
	return &Generator{
		donations: donations,
		reports:   reports,
		currency:  normalize.Currency(currency),
	}
}

// PeriodBounds returns the [start, end) time range of a YYYY-MM period.
func PeriodBounds(period string) (time.Time, time.Time, error) {
	t, err := time.Parse("2006-01", normalize.Period(period))
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadPeriod, period)
	}
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0), nil
}

// Generate builds the report for one period and upserts it. Running it
// twice for the same period replaces the totals instead of duplicating
// the report.
func (g *Generator) Generate(ctx context.Context, period, generatedBy string) (models.Report, error) {
	from, to, err := PeriodBounds(period)
	if err != nil {
		return models.Report{}, err
	}

	donations, err := g.donations.InRange(ctx, from, to)
	if err != nil {
		return models.Report{}, fmt.Errorf("load donations for %s: %w", period, err)
	}

	totals := aggregate.DonationTotals(donations)
	return g.reports.Upsert(ctx, models.Report{
		Period:          normalize.Period(period),
		TotalAmount:     totals.Amount,
		ConfirmedAmount: totals.ConfirmedAmount,
		DonationCount:   totals.Count,
		Currency:        g.currency,
		GeneratedBy:     generatedBy,
	})
}

// GeneratePrevious generates the report for the month before now. The
// scheduler calls this so a month's report exists shortly after the
// month closes.
func (g *Generator) GeneratePrevious(ctx context.Context, now time.Time) (models.Report, error) {
	now = now.UTC()
	// Anchor on the first of the month so late-month dates do not skip a
	// short month when stepping back.
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	prev := first.AddDate(0, -1, 0)
	return g.Generate(ctx, aggregate.MonthKey(prev), GeneratedByScheduler)
}
