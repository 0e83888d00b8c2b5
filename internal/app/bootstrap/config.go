// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for ImpactHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: IMPACTHUB_MONGO_URI, IMPACTHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "impacthub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},

	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "impacthub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},

	// API token settings for non-browser clients
	{Name: "api_token_secret", Default: "", Desc: "HMAC secret for bearer tokens (blank disables /auth/token)"},
	{Name: "api_token_ttl", Default: "12h", Desc: "Lifetime of issued API tokens (e.g., 12h, 30m)"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_data", Default: "db", Desc: "Data write logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// SuperAdmin bootstrap
	{Name: "superadmin_email", Default: "", Desc: "Email of the national admin promoted/created on startup"},
	{Name: "superadmin_name", Default: "Super Admin", Desc: "Display name used when the superadmin is created"},
	{Name: "superadmin_password", Default: "", Desc: "Password used when the superadmin is created (ignored for existing users)"},

	// Reporting
	{Name: "report_currency", Default: "NGN", Desc: "ISO currency recorded on generated reports"},
	{Name: "report_job_interval", Default: "1h", Desc: "How often the monthly report job re-runs"},

	// Calendar maintenance
	{Name: "reminder_cleanup_interval", Default: "6h", Desc: "How often stale reminders are pruned"},
	{Name: "reminder_retention", Default: "168h", Desc: "How long reminders outlive their event before pruning"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// It is called early in startup so that both WAFFLE and the app have
// access to configuration before any backends or handlers are built.
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "IMPACTHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),

		SessionKey:    appValues.String("session_key"),
		SessionName:   appValues.String("session_name"),
		SessionDomain: appValues.String("session_domain"),

		APITokenSecret: appValues.String("api_token_secret"),
		APITokenTTL:    appValues.Duration("api_token_ttl", 12*time.Hour),

		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
		AuditLogData:  appValues.String("audit_log_data"),

		SuperAdminEmail:    appValues.String("superadmin_email"),
		SuperAdminName:     appValues.String("superadmin_name"),
		SuperAdminPassword: appValues.String("superadmin_password"),

		ReportCurrency:    appValues.String("report_currency"),
		ReportJobInterval: appValues.Duration("report_job_interval", time.Hour),

		ReminderCleanupInterval: appValues.Duration("reminder_cleanup_interval", 6*time.Hour),
		ReminderRetention:       appValues.Duration("reminder_retention", 7*24*time.Hour),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// ImpactHub validates the MongoDB URI format to catch configuration
// errors early, before attempting to connect, and refuses intervals
// short enough to hammer the database.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}

	if len(appCfg.SessionKey) < 32 {
		return fmt.Errorf("session_key must be at least 32 characters")
	}
	if appCfg.SuperAdminEmail != "" && appCfg.SuperAdminPassword == "" {
		return fmt.Errorf("superadmin_email is set but superadmin_password is empty")
	}
	if appCfg.ReportJobInterval < time.Minute {
		return fmt.Errorf("report_job_interval must be at least 1m")
	}
	if appCfg.ReminderCleanupInterval < time.Minute {
		return fmt.Errorf("reminder_cleanup_interval must be at least 1m")
	}

	return nil
}
