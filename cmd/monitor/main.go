package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/config"
	"github.com/pegwatch/stablecoin-data/internal/history"
	"github.com/pegwatch/stablecoin-data/internal/ratelimit"
	"github.com/pegwatch/stablecoin-data/internal/scheduler"
	"github.com/pegwatch/stablecoin-data/internal/snapshot"
	"github.com/pegwatch/stablecoin-data/internal/source/coingecko"
	"github.com/pegwatch/stablecoin-data/internal/source/defillama"
	"github.com/pegwatch/stablecoin-data/internal/source/etherscan"
	"github.com/pegwatch/stablecoin-data/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (built-in defaults when empty)")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting peg monitor",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	var (
		cfg *config.MonitorConfig
		err error
	)
	if *configPath == "" {
		cfg = config.Default()
	} else {
		cfg, err = config.LoadAndValidate(*configPath)
		if err != nil {
			logger.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	instruments := cfg.InstrumentSet()
	logger.Info("configuration loaded",
		"instruments", len(instruments),
		"snapshot_interval", cfg.Scheduler.SnapshotInterval,
		"history_interval", cfg.Scheduler.HistoryInterval,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Provider clients, each behind its own limiter. History refreshes
	// share the CoinGecko limiter with ordinary price calls since they
	// consume the same upstream quota.
	cgLimiter := ratelimit.New(cfg.Providers.CoinGecko.RateLimit.Requests, cfg.Providers.CoinGecko.RateLimit.Period)
	esLimiter := ratelimit.New(cfg.Providers.Etherscan.RateLimit.Requests, cfg.Providers.Etherscan.RateLimit.Period)
	dlLimiter := ratelimit.New(cfg.Providers.DeFiLlama.RateLimit.Requests, cfg.Providers.DeFiLlama.RateLimit.Period)

	cgClient := coingecko.NewClient(
		cfg.Providers.CoinGecko.BaseURL,
		cfg.Providers.CoinGecko.APIKey,
		cgLimiter,
		coingecko.WithTimeout(cfg.Providers.CoinGecko.Timeout),
		coingecko.WithLogger(logger),
	)
	esClient := etherscan.NewClient(
		cfg.Providers.Etherscan.BaseURL,
		cfg.Providers.Etherscan.APIKey,
		esLimiter,
		etherscan.WithTimeout(cfg.Providers.Etherscan.Timeout),
		etherscan.WithLogger(logger),
	)
	dlClient := defillama.NewClient(
		cfg.Providers.DeFiLlama.BaseURL,
		dlLimiter,
		defillama.WithTimeout(cfg.Providers.DeFiLlama.Timeout),
		defillama.WithLogger(logger),
	)

	builder := snapshot.New(
		snapshot.Config{
			Timeout:     cfg.Providers.CoinGecko.Timeout,
			Concurrency: cfg.Scheduler.Concurrency,
		},
		instruments,
		cgClient,
		esClient,
		logger,
	).WithTVL(dlClient, cfg.Providers.DeFiLlama.Protocols)

	store := history.NewStore(
		history.Config{
			Lookback:    cfg.Scheduler.HistoryLookback,
			Concurrency: cfg.Scheduler.Concurrency,
		},
		cgClient,
		logger,
	)

	sched := scheduler.New(
		scheduler.Config{
			SnapshotInterval: cfg.Scheduler.SnapshotInterval,
			HistoryInterval:  cfg.Scheduler.HistoryInterval,
			WatchBoundary:    cfg.Peg.WatchBoundary,
			UnstableBoundary: cfg.Peg.UnstableBoundary,
		},
		builder,
		store,
		instruments,
		logger,
	)

	if err := sched.Start(ctx); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := sched.Stop(stopCtx); err != nil {
		logger.Error("scheduler shutdown timed out", "error", err)
		os.Exit(1)
	}

	logger.Info("shutdown complete")
}
