// internal/app/system/tasks/jobs.go
package tasks

import (
	"context"
	"time"

	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"go.uber.org/zap"
)

// MonthlyReportJob keeps the previous month's donation report current.
// Generation is an idempotent upsert, so the frequent re-runs are cheap
// and self-healing after downtime.
func MonthlyReportJob(gen *reporting.Generator, logger *zap.Logger, interval time.Duration) Job {
	return Job{
		Name:     "monthly_report",
		Interval: interval,
		Run: func(ctx context.Context) error {
			rep, err := gen.GeneratePrevious(ctx, time.Now())
			if err != nil {
				return err
			}
			logger.Debug("monthly report refreshed",
				zap.String("period", rep.Period),
				zap.Int64("total_amount", rep.TotalAmount),
				zap.Int64("donation_count", rep.DonationCount))
			return nil
		},
	}
}

// StaleReminderCleanupJob strips reminders from events that ended more
// than retain ago.
func StaleReminderCleanupJob(events *calendareventstore.Store, logger *zap.Logger, interval, retain time.Duration) Job {
	return Job{
		Name:     "stale_reminder_cleanup",
		Interval: interval,
		Run: func(ctx context.Context) error {
			n, err := events.PruneStaleReminders(ctx, time.Now().UTC().Add(-retain))
			if err != nil {
				return err
			}
			if n > 0 {
				logger.Info("pruned stale reminders", zap.Int64("events", n))
			}
			return nil
		},
	}
}
