// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"

	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"github.com/dalemusser/impacthub/internal/app/system/tasks"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// taskRunner owns the background jobs for the lifetime of the process.
// Started here, stopped in Shutdown.
var taskRunner *tasks.Runner

// Startup runs one-time application initialization after DB connections
// and schema setup are complete, but before the HTTP handler is built.
// ImpactHub uses it to guarantee a national admin exists and to start
// the background jobs.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if appCfg.SuperAdminEmail != "" {
		if err := ensureSuperAdmin(ctx, deps, appCfg, logger); err != nil {
			return err
		}
	} else {
		logger.Warn("superadmin_email not set; no admin account will be bootstrapped")
	}

	gen := reporting.NewGenerator(
		donationstore.New(deps.MongoDatabase),
		reportstore.New(deps.MongoDatabase),
		appCfg.ReportCurrency,
	)
	events := calendareventstore.New(deps.MongoDatabase)

	taskRunner = tasks.NewRunner(logger,
		tasks.MonthlyReportJob(gen, logger, appCfg.ReportJobInterval),
		tasks.StaleReminderCleanupJob(events, logger, appCfg.ReminderCleanupInterval, appCfg.ReminderRetention),
	)
	taskRunner.Start()

	return nil
}

// ensureSuperAdmin promotes an existing user to national_admin or
// creates the account when it does not exist. Existing users keep
// their password.
func ensureSuperAdmin(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)
	u, err := users.PromoteOrCreate(ctx,
		appCfg.SuperAdminName,
		appCfg.SuperAdminEmail,
		authz.RoleNationalAdmin,
		"",
		appCfg.SuperAdminPassword,
	)
	if err != nil {
		return fmt.Errorf("bootstrap superadmin %s: %w", appCfg.SuperAdminEmail, err)
	}

	logger.Info("superadmin ensured",
		zap.String("email", u.Email),
		zap.String("user_id", u.ID.Hex()))
	return nil
}
