// Package scheduler drives the periodic collection cycles and owns
// the published state read by consumers.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/anomaly"
	"github.com/pegwatch/stablecoin-data/internal/model"
)

// SnapshotBuilder produces one snapshot per invocation.
type SnapshotBuilder interface {
	Build(ctx context.Context) model.Snapshot
}

// HistoryStore refreshes and serves per-instrument price series.
type HistoryStore interface {
	RefreshAll(ctx context.Context, instruments []model.Instrument) int
	Series(symbol string) model.HistoricalSeries
}

// Config holds scheduler configuration.
type Config struct {
	SnapshotInterval time.Duration // Snapshot cycle period (default: 5m)
	HistoryInterval  time.Duration // History cycle period (default: 30m)
	WatchBoundary    float64       // Watch tier boundary (default: 0.005)
	UnstableBoundary float64       // Unstable tier boundary (default: 0.02)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		SnapshotInterval: 5 * time.Minute,
		HistoryInterval:  30 * time.Minute,
		WatchBoundary:    0.005,
		UnstableBoundary: 0.02,
	}
}

// Scheduler runs the snapshot and history cycles on independent
// periods from one loop, publishing results by atomic replacement.
// The scheduler goroutine is the only writer; readers never block.
// No cycle failure, including a panic, terminates the loop.
type Scheduler struct {
	cfg         Config
	builder     SnapshotBuilder
	history     HistoryStore
	instruments []model.Instrument
	bySymbol    map[string]model.Instrument
	logger      *slog.Logger

	current atomic.Pointer[model.Snapshot]

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a Scheduler.
func New(cfg Config, builder SnapshotBuilder, history HistoryStore, instruments []model.Instrument, logger *slog.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.SnapshotInterval == 0 {
		cfg.SnapshotInterval = def.SnapshotInterval
	}
	if cfg.HistoryInterval == 0 {
		cfg.HistoryInterval = def.HistoryInterval
	}
	if cfg.WatchBoundary == 0 {
		cfg.WatchBoundary = def.WatchBoundary
	}
	if cfg.UnstableBoundary == 0 {
		cfg.UnstableBoundary = def.UnstableBoundary
	}
	if logger == nil {
		logger = slog.Default()
	}

	bySymbol := make(map[string]model.Instrument, len(instruments))
	for _, inst := range instruments {
		bySymbol[inst.Symbol] = inst
	}

	return &Scheduler{
		cfg:         cfg,
		builder:     builder,
		history:     history,
		instruments: instruments,
		bySymbol:    bySymbol,
		logger:      logger,
	}
}

// Start begins the scheduling loop.
func (s *Scheduler) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.run()

	s.logger.Info("scheduler started",
		"snapshot_interval", s.cfg.SnapshotInterval,
		"history_interval", s.cfg.HistoryInterval,
		"instruments", len(s.instruments),
	)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the main scheduling loop.
func (s *Scheduler) run() {
	defer s.wg.Done()

	snapTicker := time.NewTicker(s.cfg.SnapshotInterval)
	defer snapTicker.Stop()
	histTicker := time.NewTicker(s.cfg.HistoryInterval)
	defer histTicker.Stop()

	// Collect immediately on start.
	s.runSnapshotCycle()
	s.runHistoryCycle()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-snapTicker.C:
			s.runSnapshotCycle()
		case <-histTicker.C:
			s.runHistoryCycle()
		}
	}
}

// runSnapshotCycle builds and publishes one snapshot. A panicking
// builder is contained so the loop survives to the next tick.
func (s *Scheduler) runSnapshotCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("snapshot cycle panicked", "panic", r)
		}
	}()

	snap := s.builder.Build(s.ctx)
	s.current.Store(&snap)
}

// runHistoryCycle refreshes every instrument's series.
func (s *Scheduler) runHistoryCycle() {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("history cycle panicked", "panic", r)
		}
	}()

	start := time.Now()
	failed := s.history.RefreshAll(s.ctx, s.instruments)

	s.logger.Info("history cycle complete",
		"instruments", len(s.instruments),
		"failed", failed,
		"duration", time.Since(start),
	)
}

// CurrentSnapshot returns the most recently published snapshot. The
// second return is false until the first cycle has published; an
// empty snapshot after a fully failed cycle still returns true.
func (s *Scheduler) CurrentSnapshot() (*model.Snapshot, bool) {
	snap := s.current.Load()
	return snap, snap != nil
}

// HistoricalSeries returns a read-only copy of one instrument's
// series, or nil when none has been collected.
func (s *Scheduler) HistoricalSeries(symbol string) model.HistoricalSeries {
	return s.history.Series(symbol)
}

// ClassifyCurrent derives the peg status of one instrument from the
// current snapshot. The second return is false when there is no
// snapshot yet, the instrument is unknown, or its price was
// unavailable this cycle.
func (s *Scheduler) ClassifyCurrent(symbol string) (model.DeviationClassification, bool) {
	snap := s.current.Load()
	if snap == nil {
		return model.DeviationClassification{}, false
	}

	inst, ok := s.bySymbol[symbol]
	if !ok {
		return model.DeviationClassification{}, false
	}

	price, ok := snap.Prices[symbol]
	if !ok {
		return model.DeviationClassification{}, false
	}

	dev, err := anomaly.Deviation(price.USD, inst.TargetPrice)
	if err != nil {
		// Target misconfiguration is caught at config validation;
		// treat it as unavailable rather than panic.
		return model.DeviationClassification{}, false
	}

	return model.DeviationClassification{
		Deviation: dev,
		Tier:      anomaly.Classify(dev, s.cfg.WatchBoundary, s.cfg.UnstableBoundary),
	}, true
}
