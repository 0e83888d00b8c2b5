// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/impacthub/internal/app/store/audit"
	beneficiarystore "github.com/dalemusser/impacthub/internal/app/store/beneficiaries"
	calendareventstore "github.com/dalemusser/impacthub/internal/app/store/calendarevents"
	donationstore "github.com/dalemusser/impacthub/internal/app/store/donations"
	donorstore "github.com/dalemusser/impacthub/internal/app/store/donors"
	programstore "github.com/dalemusser/impacthub/internal/app/store/programs"
	reportstore "github.com/dalemusser/impacthub/internal/app/store/reports"
	userstore "github.com/dalemusser/impacthub/internal/app/store/users"
	workflowstore "github.com/dalemusser/impacthub/internal/app/store/workflows"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB establishes the MongoDB connection and verifies it with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("ping MongoDB: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))
	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes every store relies on. Index
// creation is idempotent, so this runs unconditionally at startup.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	ensure := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"users", userstore.New(db).EnsureIndexes},
		{"beneficiaries", beneficiarystore.New(db).EnsureIndexes},
		{"programs", programstore.New(db).EnsureIndexes},
		{"donors", donorstore.New(db).EnsureIndexes},
		{"donations", donationstore.New(db).EnsureIndexes},
		{"workflows", workflowstore.New(db).EnsureIndexes},
		{"calendar_events", calendareventstore.New(db).EnsureIndexes},
		{"reports", reportstore.New(db).EnsureIndexes},
		{"audit_events", audit.New(db).EnsureIndexes},
	}
	for _, e := range ensure {
		if err := e.fn(ctx); err != nil {
			return fmt.Errorf("ensure %s indexes: %w", e.name, err)
		}
	}

	logger.Info("database indexes ensured", zap.Int("collections", len(ensure)))
	return nil
}
