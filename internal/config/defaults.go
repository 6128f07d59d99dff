package config

import (
	"strings"
	"time"
)

// Default values for optional configuration fields.
const (
	DefaultCoinGeckoURL = "https://api.coingecko.com/api/v3"
	DefaultEtherscanURL = "https://api.etherscan.io/api"
	DefaultDeFiLlamaURL = "https://api.llama.fi"

	DefaultWatchBoundary    = 0.005
	DefaultUnstableBoundary = 0.02

	DefaultSnapshotInterval = 5 * time.Minute
	DefaultHistoryInterval  = 30 * time.Minute
	DefaultHistoryLookback  = 30 * 24 * time.Hour
	DefaultConcurrency      = 8

	DefaultCallTimeout = 10 * time.Second

	DefaultCoinGeckoRequests = 50
	DefaultCoinGeckoPeriod   = 60 * time.Second
	DefaultEtherscanRequests = 5
	DefaultEtherscanPeriod   = time.Second
	DefaultDeFiLlamaRequests = 30
	DefaultDeFiLlamaPeriod   = 60 * time.Second

	DefaultTargetPrice = 1.0
)

// coinGeckoIDs maps well-known symbols to their CoinGecko coin ids,
// which do not follow any derivable naming rule.
var coinGeckoIDs = map[string]string{
	"USDT": "tether",
	"USDC": "usd-coin",
	"DAI":  "dai",
	"BUSD": "binance-usd",
	"TUSD": "true-usd",
	"FRAX": "frax",
}

// defaultInstruments is the built-in instrument set, used when the
// config file lists none.
var defaultInstruments = []InstrumentConfig{
	{
		Symbol:      "USDT",
		Name:        "Tether",
		Address:     "0xdAC17F958D2ee523a2206206994597C13D831ec7",
		CoinGeckoID: "tether",
		TargetPrice: 1.0,
		Decimals:    6,
	},
	{
		Symbol:      "USDC",
		Name:        "USD Coin",
		Address:     "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48",
		CoinGeckoID: "usd-coin",
		TargetPrice: 1.0,
		Decimals:    6,
	},
	{
		Symbol:      "DAI",
		Name:        "Dai",
		Address:     "0x6B175474E89094C44Da98b954EedeAC495271d0F",
		CoinGeckoID: "dai",
		TargetPrice: 1.0,
		Decimals:    18,
	},
}

func (c *MonitorConfig) applyDefaults() {
	// Instrument defaults
	if len(c.Instruments) == 0 {
		c.Instruments = append(c.Instruments, defaultInstruments...)
	}
	for i := range c.Instruments {
		inst := &c.Instruments[i]
		if inst.TargetPrice == 0 {
			inst.TargetPrice = DefaultTargetPrice
		}
		if inst.CoinGeckoID == "" {
			if id, ok := coinGeckoIDs[strings.ToUpper(inst.Symbol)]; ok {
				inst.CoinGeckoID = id
			} else {
				inst.CoinGeckoID = strings.ToLower(inst.Symbol)
			}
		}
	}

	// Peg defaults
	if c.Peg.WatchBoundary == 0 {
		c.Peg.WatchBoundary = DefaultWatchBoundary
	}
	if c.Peg.UnstableBoundary == 0 {
		c.Peg.UnstableBoundary = DefaultUnstableBoundary
	}

	// Scheduler defaults
	if c.Scheduler.SnapshotInterval == 0 {
		c.Scheduler.SnapshotInterval = DefaultSnapshotInterval
	}
	if c.Scheduler.HistoryInterval == 0 {
		c.Scheduler.HistoryInterval = DefaultHistoryInterval
	}
	if c.Scheduler.HistoryLookback == 0 {
		c.Scheduler.HistoryLookback = DefaultHistoryLookback
	}
	if c.Scheduler.Concurrency == 0 {
		c.Scheduler.Concurrency = DefaultConcurrency
	}

	// Provider defaults
	applyProviderDefaults(&c.Providers.CoinGecko, DefaultCoinGeckoURL,
		DefaultCoinGeckoRequests, DefaultCoinGeckoPeriod)
	applyProviderDefaults(&c.Providers.Etherscan, DefaultEtherscanURL,
		DefaultEtherscanRequests, DefaultEtherscanPeriod)
	applyProviderDefaults(&c.Providers.DeFiLlama.ProviderConfig, DefaultDeFiLlamaURL,
		DefaultDeFiLlamaRequests, DefaultDeFiLlamaPeriod)
}

func applyProviderDefaults(p *ProviderConfig, baseURL string, requests int, period time.Duration) {
	if p.BaseURL == "" {
		p.BaseURL = baseURL
	}
	if p.Timeout == 0 {
		p.Timeout = DefaultCallTimeout
	}
	if p.RateLimit.Requests == 0 {
		p.RateLimit.Requests = requests
	}
	if p.RateLimit.Period == 0 {
		p.RateLimit.Period = period
	}
}
