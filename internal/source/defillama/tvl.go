package defillama

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/pegwatch/stablecoin-data/internal/source"
)

// protocolResponse is the subset of GET /protocol/{slug} we consume.
// The tvl field is the protocol's TVL history; the latest entry is
// the current value. currentChainTvls is summed as a fallback when
// the history is empty.
type protocolResponse struct {
	TVL              []tvlHistoryEntry  `json:"tvl"`
	CurrentChainTVLs map[string]float64 `json:"currentChainTvls"`
}

// tvlHistoryEntry is one point of the protocol TVL history.
type tvlHistoryEntry struct {
	Date              int64   `json:"date"` // Unix seconds
	TotalLiquidityUSD float64 `json:"totalLiquidityUSD"`
}

// GetProtocolTVL fetches the current total value locked for a
// protocol slug, in USD.
func (c *Client) GetProtocolTVL(ctx context.Context, protocol string) (float64, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return 0, source.RateLimited(ProviderName, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/protocol/"+url.PathEscape(protocol), nil)
	if err != nil {
		return 0, source.NetworkFailure(ProviderName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, source.NetworkFailure(ProviderName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, source.NetworkFailure(ProviderName, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return 0, source.RateLimited(ProviderName, resp.StatusCode, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return 0, source.UpstreamError(ProviderName, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var raw protocolResponse
	if err := json.Unmarshal(body, &raw); err != nil {
		return 0, source.MalformedResponse(ProviderName, err)
	}

	if len(raw.TVL) > 0 {
		return raw.TVL[len(raw.TVL)-1].TotalLiquidityUSD, nil
	}
	if len(raw.CurrentChainTVLs) > 0 {
		var total float64
		for _, v := range raw.CurrentChainTVLs {
			total += v
		}
		return total, nil
	}

	return 0, source.MalformedResponse(ProviderName,
		fmt.Errorf("protocol %s: no tvl field in response", protocol))
}
