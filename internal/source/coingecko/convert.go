package coingecko

import (
	"sort"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// normalizeSeries converts raw [ms epoch, price] pairs into a
// HistoricalSeries: millisecond epochs become time.Time, entries with
// fewer than two elements are skipped, duplicate timestamps collapse
// last-write-wins in provider order, and the output is sorted
// ascending by time.
func normalizeSeries(pairs [][]float64) model.HistoricalSeries {
	byTime := make(map[int64]float64, len(pairs))
	for _, pair := range pairs {
		if len(pair) < 2 {
			continue
		}
		byTime[int64(pair[0])] = pair[1]
	}

	series := make(model.HistoricalSeries, 0, len(byTime))
	for ms, price := range byTime {
		series = append(series, model.PriceSample{
			Time: time.UnixMilli(ms).UTC(),
			USD:  price,
		})
	}

	sort.Slice(series, func(i, j int) bool {
		return series[i].Time.Before(series[j].Time)
	})

	return series
}
