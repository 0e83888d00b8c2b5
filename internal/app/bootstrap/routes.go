// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	auditlogfeature "github.com/dalemusser/impacthub/internal/app/features/auditlog"
	beneficiariesfeature "github.com/dalemusser/impacthub/internal/app/features/beneficiaries"
	calendarfeature "github.com/dalemusser/impacthub/internal/app/features/calendar"
	dashboardfeature "github.com/dalemusser/impacthub/internal/app/features/dashboard"
	donationsfeature "github.com/dalemusser/impacthub/internal/app/features/donations"
	donorsfeature "github.com/dalemusser/impacthub/internal/app/features/donors"
	healthfeature "github.com/dalemusser/impacthub/internal/app/features/health"
	loginfeature "github.com/dalemusser/impacthub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/impacthub/internal/app/features/logout"
	profilefeature "github.com/dalemusser/impacthub/internal/app/features/profile"
	programsfeature "github.com/dalemusser/impacthub/internal/app/features/programs"
	reportsfeature "github.com/dalemusser/impacthub/internal/app/features/reports"
	usersfeature "github.com/dalemusser/impacthub/internal/app/features/users"
	workflowsfeature "github.com/dalemusser/impacthub/internal/app/features/workflows"
	"github.com/dalemusser/impacthub/internal/app/store/audit"
	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	donorstore "github.com/dalemusser/impacthub/internal/app/store/donors"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	workflowstore "github.com/dalemusser/impacthub/internal/app/store/workflows"
	"github.com/dalemusser/impacthub/internal/app/system/auditlog"
	"github.com/dalemusser/impacthub/internal/app/system/auth"
	"github.com/dalemusser/impacthub/internal/app/system/authz"
	"github.com/dalemusser/impacthub/internal/app/system/reporting"
	"github.com/dalemusser/impacthub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and the Startup hook have completed. ImpactHub is a JSON API: every
// route under the authenticated group expects and returns JSON, and the
// session middleware also accepts bearer tokens for non-browser clients.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	// Session manager: secure cookies in production, bearer tokens when
	// a token secret is configured.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request so role changes, deactivation, and
	// preference updates take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(db))
	if appCfg.APITokenSecret != "" {
		sessionMgr.SetTokenSecret(appCfg.APITokenSecret)
		sessionMgr.SetTokenTTL(appCfg.APITokenTTL)
	}

	// Audit logger shared by every feature.
	auditStore := audit.New(db)
	auditLogger := auditlog.New(auditStore, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
		Data:  appCfg.AuditLogData,
	})

	// Stores.
	users := userstore.New(db)
	beneficiaries := beneficiarystore.New(db)
	programs := programstore.New(db)
	donors := donorstore.New(db)
	donations := donationstore.New(db)
	workflows := workflowstore.New(db)
	events := calendareventstore.New(db)
	reports := reportstore.New(db)
	reportGen := reporting.NewGenerator(donations, reports, appCfg.ReportCurrency)

	r := chi.NewRouter()

	// Every request context carries a deadline so a wedged Mongo call
	// cannot hold a handler open indefinitely.
	r.Use(middleware.Timeout(timeouts.Long()))

	// Global auth middleware: loads the SessionUser into context from the
	// session cookie or a bearer token.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators.
	r.Mount("/health", healthfeature.Routes(healthfeature.NewHandler(deps.MongoClient, logger)))

	// Authentication: register, login, token issuance, logout.
	loginHandler := loginfeature.NewHandler(users, sessionMgr, auditLogger, logger)
	r.Mount("/auth", loginfeature.Routes(loginHandler))
	r.Mount("/logout", logoutfeature.Routes(logoutfeature.NewHandler(sessionMgr, auditLogger, logger)))

	// Everything below requires a signed-in, role-assigned user.
	r.Group(func(r chi.Router) {
		r.Use(sessionMgr.RequireSignedIn)

		r.Mount("/me", profilefeature.Routes(profilefeature.NewHandler(users, auditLogger, logger)))

		// Account administration is national-admin only.
		r.Group(func(r chi.Router) {
			r.Use(sessionMgr.RequireRole(authz.RoleNationalAdmin))
			r.Mount("/users", usersfeature.Routes(usersfeature.NewHandler(users, auditLogger, logger)))
		})

		r.Mount("/beneficiaries", beneficiariesfeature.Routes(
			beneficiariesfeature.NewHandler(beneficiaries, programs, auditLogger, logger), sessionMgr))
		r.Mount("/programs", programsfeature.Routes(
			programsfeature.NewHandler(programs, beneficiaries, auditLogger, logger), sessionMgr))
		r.Mount("/donors", donorsfeature.Routes(
			donorsfeature.NewHandler(donors, donations, auditLogger, logger), sessionMgr))
		r.Mount("/donations", donationsfeature.Routes(
			donationsfeature.NewHandler(donations, donors, beneficiaries, auditLogger, logger), sessionMgr))
		r.Mount("/workflows", workflowsfeature.Routes(
			workflowsfeature.NewHandler(workflows, auditLogger, logger), sessionMgr))
		r.Mount("/calendar", calendarfeature.Routes(
			calendarfeature.NewHandler(events, auditLogger, logger), sessionMgr))
		r.Mount("/dashboard", dashboardfeature.Routes(
			dashboardfeature.NewHandler(db, beneficiaries, programs, donations, auditStore, logger)))
		r.Mount("/reports", reportsfeature.Routes(
			reportsfeature.NewHandler(reports, reportGen, auditLogger, logger), sessionMgr))
		r.Mount("/auditlog", auditlogfeature.Routes(
			auditlogfeature.NewHandler(auditStore, logger), sessionMgr))
	})

	return r, nil
}
