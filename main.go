// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/danielhkuo/wellness-api/cache"
	"github.com/danielhkuo/wellness-api/cliparse"
	"github.com/danielhkuo/wellness-api/db"
	"github.com/danielhkuo/wellness-api/logging"
	"github.com/danielhkuo/wellness-api/ratelimit"
	"github.com/danielhkuo/wellness-api/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	rootCmd := &cobra.Command{
		Use:           "wellness-api",
		Short:         "Mental wellness API: assessments, module sessions and team heatmaps",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.PersistentFlags().AddFlagSet(cliparse.NewFlagSet())

	rootCmd.AddCommand(
		&cobra.Command{Use: "serve", Short: "Run the HTTP server (default)", RunE: runServe},
		&cobra.Command{Use: "migrate", Short: "Create the database schema and exit", RunE: runMigrate},
		assessCmd(),
		tokenCmd(),
	)

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup resolves and validates config, then installs the global logger
func setup(cmd *cobra.Command) (cliparse.Config, func(), error) {
	cfg, err := cliparse.FromFlags(cmd.Flags())
	if err != nil {
		return cfg, nil, err
	}

	_, flush, err := logging.Install(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, flush, nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, flush, err := setup(cmd)
	if err != nil {
		return err
	}
	defer flush()

	conn, err := db.Open(cmd.Context(), cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(cmd.Context(), conn, cfg.DatabaseType); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	zap.L().Info("Database schema ready", zap.String("database_type", cfg.DatabaseType))
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, flush, err := setup(cmd)
	if err != nil {
		return err
	}
	defer flush()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := db.CreateSchema(ctx, conn, cfg.DatabaseType); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	zap.L().Info("Database schema ready")

	c, limiter, closeBackends, err := buildBackends(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeBackends()

	server := &http.Server{
		Handler:           router.NewRouter(conn, cfg, c, limiter),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		zap.L().Info("Listening", zap.Int("port", cfg.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	zap.L().Info("Server closed", zap.Error(err))
	return err
}

// buildBackends picks Redis for the cache and limiter when configured and in-memory otherwise
func buildBackends(ctx context.Context, cfg cliparse.Config) (cache.Cache, ratelimit.RateLimiter, func(), error) {
	rlCfg := ratelimit.DefaultConfig(cfg.RateLimit)

	if cfg.RedisURL != "" {
		client, err := cache.Dial(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		limiter, err := ratelimit.NewRedisLimiter(client, rlCfg)
		if err != nil {
			client.Close()
			return nil, nil, nil, err
		}
		zap.L().Info("Using Redis for cache and rate limiting")
		return cache.NewRedisCache(client, cache.DefaultPrefix, cfg.CacheTTL), limiter, func() { client.Close() }, nil
	}

	limiter, err := ratelimit.NewMemoryLimiter(rlCfg)
	if err != nil {
		return nil, nil, nil, err
	}
	mem := cache.NewMemoryCache(cfg.CacheTTL, time.Minute)
	zap.L().Warn("REDIS_URL not set, cache and rate limits are per process")
	return mem, limiter, func() { mem.Close() }, nil
}
