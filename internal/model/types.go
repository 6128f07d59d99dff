package model

import (
	"time"

	"github.com/google/uuid"
)

// -----------------------------------------------------------------------------
// Static Configuration Types
// -----------------------------------------------------------------------------

// Instrument is the static configuration of one tracked stablecoin.
// The instrument set is loaded once at startup and fixed for the
// process lifetime.
type Instrument struct {
	Symbol      string  // Ticker symbol (e.g., "USDT")
	Name        string  // Display name (e.g., "Tether")
	Address     string  // Ethereum contract address
	CoinGeckoID string  // CoinGecko coin id (e.g., "tether")
	TargetPrice float64 // Peg target in USD (1.0 for USD stablecoins)
	Decimals    int     // On-chain token decimals
}

// -----------------------------------------------------------------------------
// Per-Cycle Collection Types
// -----------------------------------------------------------------------------

// PricePoint is the normalized market view of one instrument for one
// collection cycle.
type PricePoint struct {
	USD       float64 // Current price in USD
	Change24h float64 // 24-hour change in percent
	MarketCap float64 // Market capitalization in USD
}

// OnChainStats holds on-chain data for one instrument. Supply and
// Holders come from separate provider calls and fail independently,
// so each is nil when its call failed.
type OnChainStats struct {
	Supply  *int64 // Token supply in base units, nil if unknown
	Holders *int64 // Holder count, nil if unknown
}

// Snapshot is one consistent, timestamped view of all instruments.
// A Snapshot is immutable once built: the maps are never mutated
// after construction and a new Snapshot fully supersedes the old one
// at publication. An instrument absent from a map was unavailable
// that cycle.
type Snapshot struct {
	ID        uuid.UUID               // Collection cycle id (log correlation)
	Timestamp time.Time               // Wall-clock time of assembly completion
	Prices    map[string]PricePoint   // Keyed by instrument symbol
	OnChain   map[string]OnChainStats // Keyed by instrument symbol
	TVL       map[string]float64      // Keyed by DeFiLlama protocol slug
}

// -----------------------------------------------------------------------------
// Time-Series Types
// -----------------------------------------------------------------------------

// PriceSample is one historical price observation.
type PriceSample struct {
	Time time.Time // Sample instant (converted from provider ms epoch)
	USD  float64   // Price in USD
}

// HistoricalSeries is a rolling window of price samples for one
// instrument, sorted ascending by time with no duplicate timestamps.
type HistoricalSeries []PriceSample

// Clone returns an independent copy of the series.
func (s HistoricalSeries) Clone() HistoricalSeries {
	if s == nil {
		return nil
	}
	out := make(HistoricalSeries, len(s))
	copy(out, s)
	return out
}

// -----------------------------------------------------------------------------
// Derived Classification Types
// -----------------------------------------------------------------------------

// Tier is the severity classification of a peg deviation.
type Tier int

const (
	TierStable Tier = iota
	TierWatch
	TierUnstable
)

// String returns the lowercase tier name.
func (t Tier) String() string {
	switch t {
	case TierStable:
		return "stable"
	case TierWatch:
		return "watch"
	case TierUnstable:
		return "unstable"
	default:
		return "unknown"
	}
}

// DeviationClassification is the derived peg status of one
// instrument. It is computed on demand and never stored.
type DeviationClassification struct {
	Deviation float64 // Fractional distance from peg, >= 0
	Tier      Tier    // Severity tier
}
