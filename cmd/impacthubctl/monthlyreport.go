package main

import (
	"fmt"
	"time"

	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	"github.com/dalemusser/impacthub/internal/app/system/aggregate"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"github.com/spf13/cobra"
)

// monthlyReportCmd regenerates the report for one period, or for the
// previous month when no period is given. Generation upserts by period,
// so repeating it is safe.
func monthlyReportCmd() *cobra.Command {
	var currency string

	cmd := &cobra.Command{
		Use:   "monthly-report [YYYY-MM]",
		Short: "Generate or regenerate a monthly donation report",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			period := ""
			if len(args) == 1 {
				period = args[0]
			} else {
				now := time.Now().UTC()
				first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
				period = aggregate.MonthKey(first.AddDate(0, -1, 0))
			}

			ctx, cancel := commandContext()
			defer cancel()
			client, db, err := connect(ctx)
			if err != nil {
				return err
			}
			defer client.Disconnect(ctx)

			gen := reporting.NewGenerator(donationstore.New(db), reportstore.New(db), currency)
			rep, err := gen.Generate(ctx, period, "impacthubctl")
			if err != nil {
				return fmt.Errorf("generate %s: %w", period, err)
			}

			fmt.Printf("%s  total=%d confirmed=%d donations=%d %s\n",
				rep.Period, rep.TotalAmount, rep.ConfirmedAmount, rep.DonationCount, rep.Currency)
			return nil
		},
	}
	cmd.Flags().StringVar(&currency, "currency", "NGN", "ISO currency recorded on the report")
	return cmd
}
