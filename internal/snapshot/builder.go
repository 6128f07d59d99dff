// Package snapshot assembles one consistent view of all instruments
// per collection cycle.
package snapshot

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// PriceSource provides batched current prices keyed by CoinGecko id.
type PriceSource interface {
	GetPrices(ctx context.Context, ids []string) (map[string]model.PricePoint, error)
}

// OnChainSource provides per-contract supply and holder counts. The
// two calls are independent and fail independently.
type OnChainSource interface {
	GetTokenSupply(ctx context.Context, contract string) (int64, error)
	GetTokenHolders(ctx context.Context, contract string) (int64, error)
}

// TVLSource provides per-protocol total value locked.
type TVLSource interface {
	GetProtocolTVL(ctx context.Context, protocol string) (float64, error)
}

// Config holds builder configuration.
type Config struct {
	Timeout     time.Duration // Per-call timeout (default: 10s)
	Concurrency int           // Max concurrent fetches (default: 8)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout:     10 * time.Second,
		Concurrency: 8,
	}
}

// Builder produces exactly one Snapshot per Build call. Any failing
// call only omits its own entry; Build never fails as a whole, and a
// snapshot with empty maps is a valid result.
type Builder struct {
	cfg         Config
	instruments []model.Instrument
	prices      PriceSource
	onchain     OnChainSource
	tvl         TVLSource // nil disables TVL collection
	protocols   []string
	logger      *slog.Logger
}

// New creates a Builder for a fixed instrument set.
func New(cfg Config, instruments []model.Instrument, prices PriceSource, onchain OnChainSource, logger *slog.Logger) *Builder {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{
		cfg:         cfg,
		instruments: instruments,
		prices:      prices,
		onchain:     onchain,
		logger:      logger,
	}
}

// WithTVL enables TVL collection for the given protocol slugs.
func (b *Builder) WithTVL(src TVLSource, protocols []string) *Builder {
	b.tvl = src
	b.protocols = protocols
	return b
}

// Build collects price, on-chain, and TVL data for all instruments
// concurrently and assembles an immutable Snapshot. Every underlying
// call carries its own timeout, so total latency is bounded by the
// slowest single call, not the sum.
func (b *Builder) Build(ctx context.Context) model.Snapshot {
	start := time.Now()
	cycleID := uuid.New()

	var (
		mu      sync.Mutex
		wg      sync.WaitGroup
		fetched atomic.Int64
		errs    atomic.Int64
	)
	prices := make(map[string]model.PricePoint)
	onchain := make(map[string]model.OnChainStats)
	tvl := make(map[string]float64)

	// Semaphore for bounded concurrency.
	sem := make(chan struct{}, b.cfg.Concurrency)

	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				errs.Add(1)
				return
			}

			fn()
		}()
	}

	// One batched price call covers the whole instrument set.
	run(func() {
		callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
		defer cancel()

		ids := make([]string, 0, len(b.instruments))
		byID := make(map[string]string, len(b.instruments))
		for _, inst := range b.instruments {
			ids = append(ids, inst.CoinGeckoID)
			byID[inst.CoinGeckoID] = inst.Symbol
		}

		got, err := b.prices.GetPrices(callCtx, ids)
		if err != nil {
			b.logger.Warn("price fetch failed", "cycle", cycleID, "err", err)
			errs.Add(1)
			return
		}

		mu.Lock()
		for id, pp := range got {
			if sym, ok := byID[id]; ok {
				prices[sym] = pp
			}
		}
		mu.Unlock()
		fetched.Add(1)
	})

	// Supply and holders are separate provider calls per instrument;
	// each failure degrades only its own field.
	for _, inst := range b.instruments {
		inst := inst
		run(func() {
			callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
			defer cancel()

			supply, err := b.onchain.GetTokenSupply(callCtx, inst.Address)
			if err != nil {
				b.logger.Warn("token supply fetch failed",
					"cycle", cycleID, "symbol", inst.Symbol, "err", err)
				errs.Add(1)
				return
			}

			mu.Lock()
			stats := onchain[inst.Symbol]
			stats.Supply = &supply
			onchain[inst.Symbol] = stats
			mu.Unlock()
			fetched.Add(1)
		})

		run(func() {
			callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
			defer cancel()

			holders, err := b.onchain.GetTokenHolders(callCtx, inst.Address)
			if err != nil {
				b.logger.Warn("token holders fetch failed",
					"cycle", cycleID, "symbol", inst.Symbol, "err", err)
				errs.Add(1)
				return
			}

			mu.Lock()
			stats := onchain[inst.Symbol]
			stats.Holders = &holders
			onchain[inst.Symbol] = stats
			mu.Unlock()
			fetched.Add(1)
		})
	}

	if b.tvl != nil {
		for _, protocol := range b.protocols {
			protocol := protocol
			run(func() {
				callCtx, cancel := context.WithTimeout(ctx, b.cfg.Timeout)
				defer cancel()

				value, err := b.tvl.GetProtocolTVL(callCtx, protocol)
				if err != nil {
					b.logger.Warn("tvl fetch failed",
						"cycle", cycleID, "protocol", protocol, "err", err)
					errs.Add(1)
					return
				}

				mu.Lock()
				tvl[protocol] = value
				mu.Unlock()
				fetched.Add(1)
			})
		}
	}

	wg.Wait()

	snap := model.Snapshot{
		ID:        cycleID,
		Timestamp: time.Now().UTC(),
		Prices:    prices,
		OnChain:   onchain,
		TVL:       tvl,
	}

	b.logger.Info("snapshot assembled",
		"cycle", cycleID,
		"instruments", len(b.instruments),
		"fetched", fetched.Load(),
		"errors", errs.Load(),
		"duration", time.Since(start),
	)

	return snap
}
