package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
func (c *MonitorConfig) Validate() error {
	if len(c.Instruments) == 0 {
		return errors.New("at least one instrument is required")
	}

	seen := make(map[string]struct{}, len(c.Instruments))
	for i, inst := range c.Instruments {
		if inst.Symbol == "" {
			return fmt.Errorf("instruments[%d].symbol is required", i)
		}
		if _, dup := seen[inst.Symbol]; dup {
			return fmt.Errorf("duplicate instrument symbol %q", inst.Symbol)
		}
		seen[inst.Symbol] = struct{}{}

		if inst.TargetPrice <= 0 {
			return fmt.Errorf("instruments[%d].target_price must be > 0, got %g", i, inst.TargetPrice)
		}
		if inst.Decimals < 0 {
			return fmt.Errorf("instruments[%d].decimals must be >= 0, got %d", i, inst.Decimals)
		}
	}

	if c.Peg.WatchBoundary <= 0 {
		return errors.New("peg.watch_boundary must be > 0")
	}
	if c.Peg.UnstableBoundary <= 0 {
		return errors.New("peg.unstable_boundary must be > 0")
	}
	if c.Peg.WatchBoundary >= c.Peg.UnstableBoundary {
		return fmt.Errorf("peg.watch_boundary (%g) must be less than peg.unstable_boundary (%g)",
			c.Peg.WatchBoundary, c.Peg.UnstableBoundary)
	}

	if c.Scheduler.SnapshotInterval <= 0 {
		return errors.New("scheduler.snapshot_interval must be positive")
	}
	if c.Scheduler.HistoryInterval <= 0 {
		return errors.New("scheduler.history_interval must be positive")
	}
	if c.Scheduler.HistoryLookback <= 0 {
		return errors.New("scheduler.history_lookback must be positive")
	}
	if c.Scheduler.Concurrency < 1 {
		return errors.New("scheduler.concurrency must be >= 1")
	}

	if err := c.Providers.CoinGecko.validate("providers.coingecko"); err != nil {
		return err
	}
	if err := c.Providers.Etherscan.validate("providers.etherscan"); err != nil {
		return err
	}
	if err := c.Providers.DeFiLlama.validate("providers.defillama"); err != nil {
		return err
	}

	return nil
}

func (p *ProviderConfig) validate(prefix string) error {
	if p.BaseURL == "" {
		return fmt.Errorf("%s.base_url is required", prefix)
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("%s.timeout must be positive", prefix)
	}
	if p.RateLimit.Requests < 1 {
		return fmt.Errorf("%s.rate_limit.requests must be >= 1", prefix)
	}
	if p.RateLimit.Period <= 0 {
		return fmt.Errorf("%s.rate_limit.period must be positive", prefix)
	}
	return nil
}
