// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// WAFFLE's CoreConfig handles framework-level settings (ports, TLS,
// logging level, request limits). AppConfig is everything specific to
// ImpactHub: database naming, session and token secrets, audit routing,
// the bootstrap admin, and the background job cadence.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Max connection pool size
	MongoMinPoolSize uint64 // Min connection pool size

	// Session management configuration
	SessionKey    string // Secret key for signing session cookies (must be strong in production)
	SessionName   string // Cookie name for sessions (default: impacthub-session)
	SessionDomain string // Cookie domain (blank means current host)

	// Bearer token configuration for non-browser API clients
	APITokenSecret string        // HMAC secret for signing API tokens (blank disables /auth/token)
	APITokenTTL    time.Duration // Lifetime of issued tokens

	// Audit logging routing per category: "all" (db+log), "db", "log", "off"
	AuditLogAuth  string
	AuditLogAdmin string
	AuditLogData  string

	// SuperAdmin bootstrap: promoted or created on startup so a fresh
	// deployment always has one national admin.
	SuperAdminEmail    string
	SuperAdminName     string
	SuperAdminPassword string

	// Reporting
	ReportCurrency    string        // ISO currency recorded on generated reports
	ReportJobInterval time.Duration // How often the monthly report job re-runs

	// Calendar maintenance
	ReminderCleanupInterval time.Duration // How often stale reminders are pruned
	ReminderRetention       time.Duration // How long reminders outlive their event
}
