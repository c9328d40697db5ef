// Package commands implements the restaurantops CLI's cobra subcommands,
// grounded in admin-cli's cmd/admin-cli command layout: one file per
// subcommand, global --format/--config flags threaded through a shared
// environment struct, structured CLIError values carrying exit codes.
package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"restaurantops/internal/cliout"
	"restaurantops/internal/config"
	"restaurantops/internal/logging"
	"restaurantops/internal/observability"
	"restaurantops/internal/orchestrator"
	"restaurantops/internal/patterns"
	"restaurantops/internal/patterns/redisstore"
	"restaurantops/internal/patterns/shardedstore"
	"restaurantops/internal/storage"
	"restaurantops/internal/storage/postgres"
)

// patternStoreTTL is how long a learned pattern survives in Redis past
// its last update, long enough to span the weekly batch cadence this
// pipeline is run at without patterns expiring between runs.
const patternStoreTTL = 30 * 24 * time.Hour

// Env bundles the global flags and lazily-built collaborators every
// subcommand needs, mirroring admin-cli's pattern of threading one struct
// through RunE closures instead of package-level globals.
type Env struct {
	ConfigDir   string
	Environment string
	Format      string // "table" or "json"

	logger *zap.Logger
}

// Logger lazily builds (and caches) the process zap.Logger.
func (e *Env) Logger() *zap.Logger {
	if e.logger == nil {
		e.logger = logging.MustNew(logging.DefaultConfig())
	}
	return e.logger
}

// LoadConfig loads the layered configuration tree for one restaurant
// (restaurant may be empty for commands that operate on several).
func (e *Env) LoadConfig(restaurant string) (*config.Config, error) {
	return config.Load(e.ConfigDir, e.Environment, restaurant)
}

// DatabaseClient builds the storage.DatabaseClient for cfg.Secrets: a real
// Postgres-backed client when DATABASE_URL is set, a no-op client
// otherwise so commands still run end to end without a database
// configured (e.g. local dry runs).
func (e *Env) DatabaseClient(ctx context.Context, cfg *config.Config) (storage.DatabaseClient, func(), error) {
	if cfg.Secrets.DatabaseURL == "" {
		return storage.NewNoopClient(), func() {}, nil
	}
	store, err := postgres.NewStore(ctx, cfg.Secrets.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}
	return store, store.Close, nil
}

// NewOrchestrator builds an orchestrator.Orchestrator sharing one pair of
// pattern stores across the whole batch, per spec.md §5's "pattern stores
// are per-batch, not per-run" requirement. When cfg.Secrets.RedisURL is
// configured, patterns are additionally durable across process restarts
// via internal/patterns/redisstore; otherwise they fall back to the
// in-memory shardedstore, scoped to this batch only.
func (e *Env) NewOrchestrator(baseDir string, cfg *config.Config, db storage.DatabaseClient) *orchestrator.Orchestrator {
	daily, timeslots := e.patternStores(cfg)
	return orchestrator.New(baseDir, *cfg, daily, timeslots, db, e.Logger())
}

func (e *Env) patternStores(cfg *config.Config) (patterns.DailyLaborStore, patterns.TimeslotStore) {
	if cfg.Secrets.RedisURL == "" {
		return shardedstore.NewDailyStore(), shardedstore.NewTimeslotStore()
	}
	opts, err := redis.ParseURL(cfg.Secrets.RedisURL)
	if err != nil {
		e.Logger().Warn("invalid REDIS_URL, falling back to in-memory pattern stores", zap.Error(err))
		return shardedstore.NewDailyStore(), shardedstore.NewTimeslotStore()
	}
	client := redis.NewClient(opts)
	return redisstore.NewDailyStore(client, patternStoreTTL), redisstore.NewTimeslotStore(client, patternStoreTTL)
}

// RootCommand builds the restaurantops root cobra command with its global
// flags and registered subcommands.
func RootCommand() *cobra.Command {
	env := &Env{}

	root := &cobra.Command{
		Use:   "restaurantops",
		Short: "Restaurant operations analytics pipeline",
		Long: `restaurantops ingests point-of-sale exports for a set of restaurants,
computes per-day operational metrics, learns behavioral patterns over
time, and persists results to a database and a dashboard-ready artifact.`,
	}

	root.PersistentFlags().StringVar(&env.ConfigDir, "config", "config", "configuration directory")
	root.PersistentFlags().StringVar(&env.Environment, "environment", "", "configuration environment overlay (e.g. production)")
	root.PersistentFlags().StringVar(&env.Format, "format", "table", "output format: table or json")

	var tracingShutdown func(context.Context) error
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		provider, err := observability.Init(cmd.Context(), observabilityConfig(env, "restaurantops"))
		if err != nil {
			return err
		}
		tracingShutdown = provider.Shutdown
		return nil
	}
	root.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if tracingShutdown == nil {
			return nil
		}
		return tracingShutdown(cmd.Context())
	}

	root.AddCommand(RunCommand(env))
	root.AddCommand(RunRangeCommand(env))

	return root
}

func newJSONFormatter() *cliout.JSONFormatter {
	return cliout.NewJSONFormatter(os.Stdout)
}

func newTableFormatter() *cliout.TableFormatter {
	return cliout.NewTableFormatter(os.Stdout)
}

func observabilityConfig(env *Env, serviceName string) observability.Config {
	return observability.Config{
		ServiceName: serviceName,
		Environment: env.Environment,
		Endpoint:    os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		Protocol:    os.Getenv("OTEL_EXPORTER_OTLP_PROTOCOL"),
	}
}
