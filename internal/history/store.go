// Package history maintains per-instrument rolling price series.
package history

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// Source provides a provider's historical price series for one coin.
type Source interface {
	GetMarketChart(ctx context.Context, id string, lookback time.Duration) (model.HistoricalSeries, error)
}

// Config holds store configuration.
type Config struct {
	Lookback    time.Duration // History window (default: 30 days)
	Concurrency int           // Max concurrent refreshes (default: 4)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Lookback:    30 * 24 * time.Hour,
		Concurrency: 4,
	}
}

// Store owns the per-instrument series. A successful refresh replaces
// an instrument's series wholesale; a failed refresh leaves the
// previous series untouched, so readers prefer stale data over none.
type Store struct {
	cfg    Config
	source Source
	logger *slog.Logger

	mu     sync.RWMutex
	series map[string]model.HistoricalSeries
}

// NewStore creates an empty Store.
func NewStore(cfg Config, source Source, logger *slog.Logger) *Store {
	if cfg.Lookback == 0 {
		cfg.Lookback = DefaultConfig().Lookback
	}
	if cfg.Concurrency == 0 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		cfg:    cfg,
		source: source,
		logger: logger,
		series: make(map[string]model.HistoricalSeries),
	}
}

// Refresh fetches a fresh series for one instrument and stores it.
// On failure the stored series is unchanged and the error returned
// for the caller to log.
func (s *Store) Refresh(ctx context.Context, inst model.Instrument) error {
	fresh, err := s.source.GetMarketChart(ctx, inst.CoinGeckoID, s.cfg.Lookback)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.series[inst.Symbol] = fresh
	s.mu.Unlock()

	return nil
}

// RefreshAll refreshes every instrument concurrently, bounded by the
// configured concurrency. Failures are logged per instrument and
// counted; one instrument's failure never blocks the others.
func (s *Store) RefreshAll(ctx context.Context, instruments []model.Instrument) int {
	var (
		g      errgroup.Group
		mu     sync.Mutex
		failed int
	)
	g.SetLimit(s.cfg.Concurrency)

	for _, inst := range instruments {
		inst := inst
		g.Go(func() error {
			if err := s.Refresh(ctx, inst); err != nil {
				s.logger.Warn("history refresh failed",
					"symbol", inst.Symbol, "err", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
			return nil
		})
	}

	// Goroutines always return nil; the group is used for its limit.
	_ = g.Wait()

	return failed
}

// Series returns a read-only copy of one instrument's series, or nil
// when no successful refresh has happened yet.
func (s *Store) Series(symbol string) model.HistoricalSeries {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.series[symbol].Clone()
}

// Seed installs a series directly, bypassing the provider. Used for
// warm starts and tests.
func (s *Store) Seed(symbol string, series model.HistoricalSeries) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.series[symbol] = series.Clone()
}
