package coingecko

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// GetMarketChart fetches the historical USD price series for one coin
// over the given lookback window. Timestamps are converted from
// millisecond epochs, duplicates collapsed, and the result sorted
// ascending.
func (c *Client) GetMarketChart(ctx context.Context, id string, lookback time.Duration) (model.HistoricalSeries, error) {
	days := int(lookback / (24 * time.Hour))
	if days < 1 {
		days = 1
	}

	query := url.Values{}
	query.Set("vs_currency", "usd")
	query.Set("days", strconv.Itoa(days))

	var raw marketChartResponse
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", query, &raw); err != nil {
		return nil, err
	}

	return normalizeSeries(raw.Prices), nil
}
