package config

import (
	"time"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// MonitorConfig is the root configuration for a monitor instance.
type MonitorConfig struct {
	Instruments []InstrumentConfig `yaml:"instruments"`
	Peg         PegConfig          `yaml:"peg"`
	Scheduler   SchedulerConfig    `yaml:"scheduler"`
	Providers   ProvidersConfig    `yaml:"providers"`
}

// InstrumentConfig describes one tracked stablecoin.
type InstrumentConfig struct {
	Symbol      string  `yaml:"symbol"`
	Name        string  `yaml:"name"`
	Address     string  `yaml:"address"`      // Ethereum contract address
	CoinGeckoID string  `yaml:"coingecko_id"` // Defaults from the symbol for known coins
	TargetPrice float64 `yaml:"target_price"` // Default 1.0
	Decimals    int     `yaml:"decimals"`
}

// PegConfig holds the deviation classification boundaries, as
// fractions of the target price.
type PegConfig struct {
	WatchBoundary    float64 `yaml:"watch_boundary"`    // Watch above this
	UnstableBoundary float64 `yaml:"unstable_boundary"` // Unstable above this
}

// SchedulerConfig holds cycle timing settings.
type SchedulerConfig struct {
	SnapshotInterval time.Duration `yaml:"snapshot_interval"`
	HistoryInterval  time.Duration `yaml:"history_interval"`
	HistoryLookback  time.Duration `yaml:"history_lookback"`
	Concurrency      int           `yaml:"concurrency"` // Max concurrent fetches per cycle
}

// ProvidersConfig holds per-provider settings.
type ProvidersConfig struct {
	CoinGecko ProviderConfig  `yaml:"coingecko"`
	Etherscan ProviderConfig  `yaml:"etherscan"`
	DeFiLlama DeFiLlamaConfig `yaml:"defillama"`
}

// ProviderConfig holds settings for a single upstream provider.
type ProviderConfig struct {
	BaseURL   string          `yaml:"base_url"`
	APIKey    string          `yaml:"api_key"`
	Timeout   time.Duration   `yaml:"timeout"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// DeFiLlamaConfig adds the tracked protocol slugs to the common
// provider settings.
type DeFiLlamaConfig struct {
	ProviderConfig `yaml:",inline"`
	Protocols      []string `yaml:"protocols"` // Protocol slugs for TVL tracking
}

// RateLimitConfig bounds request rate to one provider: at most
// Requests permits per rolling Period.
type RateLimitConfig struct {
	Requests int           `yaml:"requests"`
	Period   time.Duration `yaml:"period"`
}

// InstrumentSet converts the configured instruments to model types.
func (c *MonitorConfig) InstrumentSet() []model.Instrument {
	out := make([]model.Instrument, 0, len(c.Instruments))
	for _, ic := range c.Instruments {
		out = append(out, model.Instrument{
			Symbol:      ic.Symbol,
			Name:        ic.Name,
			Address:     ic.Address,
			CoinGeckoID: ic.CoinGeckoID,
			TargetPrice: ic.TargetPrice,
			Decimals:    ic.Decimals,
		})
	}
	return out
}
