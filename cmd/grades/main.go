package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/noah-isme/gema-grades/internal/config"
	"github.com/noah-isme/gema-grades/internal/database"
	"github.com/noah-isme/gema-grades/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:           "grades",
	Short:         "Seed and report on the student grades database",
	Long:          `grades seeds a relational store with synthetic groups, teachers, subjects, students and grades, and prints twelve aggregate reports over them.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(migrateCmd, seedCmd, reportCmd)
}

// app bundles the resources one command run holds; close releases them.
type app struct {
	cfg    config.Config
	logger zerolog.Logger
	db     *gorm.DB
	cache  *redis.Client
}

func newApp(ctx context.Context, withCache bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	a := &app{cfg: cfg, logger: logger, db: db}
	if withCache && cfg.RedisURL != "" {
		cache, err := database.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("report cache disabled")
		} else {
			a.cache = cache
		}
	}

	logger.Debug().Str("driver", cfg.DatabaseDriver).Int("pool_size", cfg.PoolSize).Msg("connected")
	return a, nil
}

func (a *app) close() {
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}

	if err := database.Close(a.db); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close database")
	}

	if a.cfg.MetricsFile != "" {
		if err := observability.WriteTextfile(a.cfg.MetricsFile); err != nil {
			a.logger.Warn().Err(err).Str("path", a.cfg.MetricsFile).Msg("failed to write metrics")
		}
	}
}

func newLogger(cfg config.Config) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("invalid log level: %w", err)
	}

	var logger zerolog.Logger
	if cfg.LogPretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}

	return logger.Level(level).With().
		Timestamp().
		Str("app", cfg.AppName).
		Str("run_id", uuid.NewString()).
		Logger(), nil
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the grades schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.close()

		if err := database.Migrate(a.db.WithContext(cmd.Context())); err != nil {
			return err
		}
		a.logger.Info().Msg("schema migrated")
		return nil
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
