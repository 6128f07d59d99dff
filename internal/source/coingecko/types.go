package coingecko

// simplePriceEntry is one coin's entry from GET /simple/price.
type simplePriceEntry struct {
	USD          *float64 `json:"usd"`
	USD24hChange float64  `json:"usd_24h_change"`
	USDMarketCap float64  `json:"usd_market_cap"`
}

// marketChartResponse from GET /coins/{id}/market_chart.
// Prices are [millisecond epoch, usd price] pairs.
type marketChartResponse struct {
	Prices [][]float64 `json:"prices"`
}
