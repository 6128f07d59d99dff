// Package anomaly classifies peg deviation. All functions are pure:
// no I/O, no state, recomputed from scratch on every call.
package anomaly

import (
	"errors"
	"math"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// ErrInvalidTarget is returned when a peg target is not positive.
var ErrInvalidTarget = errors.New("peg target must be > 0")

// Deviation returns the fractional distance of price from target:
// |price - target| / target.
func Deviation(price, target float64) (float64, error) {
	if target <= 0 {
		return 0, ErrInvalidTarget
	}
	return math.Abs(price-target) / target, nil
}

// Classify maps a deviation to a severity tier: Unstable strictly
// above the unstable boundary, Watch strictly above the watch
// boundary up to and including the unstable boundary, Stable
// otherwise. A deviation of exactly the unstable boundary is Watch.
func Classify(deviation, watchBoundary, unstableBoundary float64) model.Tier {
	switch {
	case deviation > unstableBoundary:
		return model.TierUnstable
	case deviation > watchBoundary:
		return model.TierWatch
	default:
		return model.TierStable
	}
}

// Flags maps every sample of a series to whether it breaches the
// unstable boundary. The result is index-aligned with the input;
// Watch-tier samples do not flag.
func Flags(series model.HistoricalSeries, target, unstableBoundary float64) ([]bool, error) {
	flags := make([]bool, len(series))
	for i, sample := range series {
		dev, err := Deviation(sample.USD, target)
		if err != nil {
			return nil, err
		}
		flags[i] = dev > unstableBoundary
	}
	return flags, nil
}
