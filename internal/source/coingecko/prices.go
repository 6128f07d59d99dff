package coingecko

import (
	"context"
	"net/url"
	"strings"

	"github.com/pegwatch/stablecoin-data/internal/model"
)

// GetPrices fetches current prices for the given CoinGecko coin ids
// in one batched call (one rate-limit permit regardless of the number
// of ids). The result is keyed by coin id; ids the provider does not
// know are absent from the map.
func (c *Client) GetPrices(ctx context.Context, ids []string) (map[string]model.PricePoint, error) {
	query := url.Values{}
	query.Set("ids", strings.Join(ids, ","))
	query.Set("vs_currencies", "usd")
	query.Set("include_24hr_change", "true")
	query.Set("include_market_cap", "true")

	var raw map[string]simplePriceEntry
	if err := c.get(ctx, "/simple/price", query, &raw); err != nil {
		return nil, err
	}

	prices := make(map[string]model.PricePoint, len(raw))
	for id, entry := range raw {
		// Entries without a usd quote are unusable; drop rather than
		// report a zero price.
		if entry.USD == nil {
			continue
		}
		prices[id] = model.PricePoint{
			USD:       *entry.USD,
			Change24h: entry.USD24hChange,
			MarketCap: entry.USDMarketCap,
		}
	}

	return prices, nil
}
