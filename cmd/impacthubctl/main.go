// Command impacthubctl is the operations companion to the impacthub
// server: seeding accounts, checking credentials, and regenerating
// monthly reports without going through the HTTP API.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var (
	mongoURI      string
	mongoDatabase string
)

func main() {
	root := &cobra.Command{
		Use:           "impacthubctl",
		Short:         "Operations tooling for an ImpactHub deployment",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&mongoURI, "mongo-uri",
		envOr("IMPACTHUB_MONGO_URI", "mongodb://localhost:27017"), "MongoDB connection URI")
	root.PersistentFlags().StringVar(&mongoDatabase, "mongo-database",
		envOr("IMPACTHUB_MONGO_DATABASE", "impacthub"), "MongoDB database name")

	root.AddCommand(seedUsersCmd(), verifyUserCmd(), monthlyReportCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// connect opens a MongoDB connection for the duration of one command.
func connect(ctx context.Context) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping MongoDB: %w", err)
	}
	return client, client.Database(mongoDatabase), nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
