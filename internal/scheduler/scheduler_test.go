package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

type fakeBuilder struct {
	fn func(ctx context.Context) model.Snapshot
}

func (f *fakeBuilder) Build(ctx context.Context) model.Snapshot {
	return f.fn(ctx)
}

type fakeHistory struct {
	mu        sync.Mutex
	refreshes int
	series    map[string]model.HistoricalSeries
}

func (f *fakeHistory) RefreshAll(ctx context.Context, instruments []model.Instrument) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return 0
}

func (f *fakeHistory) Series(symbol string) model.HistoricalSeries {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.series[symbol].Clone()
}

var testInstruments = []model.Instrument{
	{Symbol: "USDT", CoinGeckoID: "tether", TargetPrice: 1.0},
	{Symbol: "DAI", CoinGeckoID: "dai", TargetPrice: 1.0},
}

func snapshotWith(prices map[string]model.PricePoint) model.Snapshot {
	return model.Snapshot{
		ID:        uuid.New(),
		Timestamp: time.Now().UTC(),
		Prices:    prices,
		OnChain:   map[string]model.OnChainStats{},
		TVL:       map[string]float64{},
	}
}

func TestCurrentSnapshot(t *testing.T) {
	t.Run("not yet collected", func(t *testing.T) {
		s := New(DefaultConfig(), &fakeBuilder{}, &fakeHistory{}, testInstruments, nil)

		if _, ok := s.CurrentSnapshot(); ok {
			t.Error("CurrentSnapshot reported a value before any cycle ran")
		}
	})

	t.Run("empty snapshot is still a snapshot", func(t *testing.T) {
		builder := &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
			return snapshotWith(map[string]model.PricePoint{})
		}}
		s := New(DefaultConfig(), builder, &fakeHistory{}, testInstruments, nil)
		s.ctx = context.Background()

		s.runSnapshotCycle()

		snap, ok := s.CurrentSnapshot()
		if !ok {
			t.Fatal("empty snapshot must be distinguishable from no snapshot")
		}
		if len(snap.Prices) != 0 {
			t.Errorf("len(Prices) = %d, want 0", len(snap.Prices))
		}
		if snap.Timestamp.IsZero() {
			t.Error("empty snapshot has no timestamp")
		}
	})
}

func TestClassifyCurrent(t *testing.T) {
	builder := &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
		return snapshotWith(map[string]model.PricePoint{
			"USDT": {USD: 1.021},
			"DAI":  {USD: 0.999},
		})
	}}
	s := New(DefaultConfig(), builder, &fakeHistory{}, testInstruments, nil)
	s.ctx = context.Background()
	s.runSnapshotCycle()

	t.Run("unstable instrument", func(t *testing.T) {
		dc, ok := s.ClassifyCurrent("USDT")
		if !ok {
			t.Fatal("ClassifyCurrent returned unavailable")
		}
		if dc.Tier != model.TierUnstable {
			t.Errorf("Tier = %v, want unstable", dc.Tier)
		}
		if dc.Deviation < 0.0209 || dc.Deviation > 0.0211 {
			t.Errorf("Deviation = %g, want 0.021", dc.Deviation)
		}
	})

	t.Run("stable instrument", func(t *testing.T) {
		dc, ok := s.ClassifyCurrent("DAI")
		if !ok {
			t.Fatal("ClassifyCurrent returned unavailable")
		}
		if dc.Tier != model.TierStable {
			t.Errorf("Tier = %v, want stable", dc.Tier)
		}
	})

	t.Run("unknown instrument", func(t *testing.T) {
		if _, ok := s.ClassifyCurrent("BTC"); ok {
			t.Error("ClassifyCurrent reported a value for an unknown instrument")
		}
	})

	t.Run("price unavailable this cycle", func(t *testing.T) {
		s2 := New(DefaultConfig(), &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
			return snapshotWith(map[string]model.PricePoint{})
		}}, &fakeHistory{}, testInstruments, nil)
		s2.ctx = context.Background()
		s2.runSnapshotCycle()

		if _, ok := s2.ClassifyCurrent("USDT"); ok {
			t.Error("ClassifyCurrent must report unavailable, never zero")
		}
	})

	t.Run("no snapshot yet", func(t *testing.T) {
		s3 := New(DefaultConfig(), &fakeBuilder{}, &fakeHistory{}, testInstruments, nil)
		if _, ok := s3.ClassifyCurrent("USDT"); ok {
			t.Error("ClassifyCurrent reported a value before any cycle")
		}
	})
}

func TestHistoricalSeries(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	hist := &fakeHistory{series: map[string]model.HistoricalSeries{
		"USDT": {{Time: base, USD: 1.0}},
	}}
	s := New(DefaultConfig(), &fakeBuilder{}, hist, testInstruments, nil)

	if got := s.HistoricalSeries("USDT"); len(got) != 1 {
		t.Errorf("len(series) = %d, want 1", len(got))
	}
	if got := s.HistoricalSeries("DAI"); got != nil {
		t.Errorf("series for uncollected instrument = %v, want nil", got)
	}
}

// TestAtomicPublication verifies readers never observe a snapshot
// mixing fields from two cycles: every snapshot a cycle publishes is
// internally uniform, so any mixture would surface as disagreement.
func TestAtomicPublication(t *testing.T) {
	var cycle atomic.Int64
	builder := &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
		n := float64(cycle.Add(1))
		return snapshotWith(map[string]model.PricePoint{
			"USDT": {USD: n, MarketCap: n},
			"DAI":  {USD: n, MarketCap: n},
		})
	}}

	cfg := DefaultConfig()
	cfg.SnapshotInterval = time.Millisecond
	cfg.HistoryInterval = time.Hour
	s := New(cfg, builder, &fakeHistory{}, testInstruments, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := s.Stop(ctx); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
	}()

	var wg sync.WaitGroup
	errCh := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			deadline := time.Now().Add(100 * time.Millisecond)
			for time.Now().Before(deadline) {
				snap, ok := s.CurrentSnapshot()
				if !ok {
					continue
				}
				usdt := snap.Prices["USDT"]
				dai := snap.Prices["DAI"]
				if usdt.USD != dai.USD || usdt.USD != usdt.MarketCap {
					errCh <- "observed snapshot mixing values from different cycles"
					return
				}
			}
		}()
	}

	wg.Wait()
	select {
	case msg := <-errCh:
		t.Error(msg)
	default:
	}
}

func TestSchedulerSurvivesPanic(t *testing.T) {
	var calls atomic.Int64
	builder := &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
		if calls.Add(1) == 1 {
			panic("provider returned garbage")
		}
		return snapshotWith(map[string]model.PricePoint{"USDT": {USD: 1.0}})
	}}

	cfg := DefaultConfig()
	cfg.SnapshotInterval = 5 * time.Millisecond
	cfg.HistoryInterval = time.Hour
	s := New(cfg, builder, &fakeHistory{}, testInstruments, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// First cycle panics; the loop must keep ticking and publish later.
	deadline := time.Now().Add(time.Second)
	for {
		if _, ok := s.CurrentSnapshot(); ok {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("scheduler never recovered from a panicking cycle")
		}
		time.Sleep(time.Millisecond)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestStartStop(t *testing.T) {
	var built atomic.Bool
	builder := &fakeBuilder{fn: func(ctx context.Context) model.Snapshot {
		built.Store(true)
		return snapshotWith(map[string]model.PricePoint{})
	}}
	hist := &fakeHistory{}

	cfg := DefaultConfig()
	cfg.SnapshotInterval = 10 * time.Millisecond
	cfg.HistoryInterval = 10 * time.Millisecond
	s := New(cfg, builder, hist, testInstruments, nil)

	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	time.Sleep(30 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}

	if !built.Load() {
		t.Error("builder was never invoked")
	}
	hist.mu.Lock()
	refreshes := hist.refreshes
	hist.mu.Unlock()
	if refreshes == 0 {
		t.Error("history was never refreshed")
	}
}
