package coingecko

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/pegwatch/stablecoin-data/internal/source"
)

// get performs a rate-limited GET request and decodes the JSON body
// into result. Every failure path resolves into a *source.FetchError.
func (c *Client) get(ctx context.Context, path string, query url.Values, result any) error {
	if err := c.limiter.Acquire(ctx); err != nil {
		return source.RateLimited(ProviderName, 0, err)
	}

	if c.apiKey != "" {
		query.Set("x_cg_demo_api_key", c.apiKey)
	}

	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return source.NetworkFailure(ProviderName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return source.NetworkFailure(ProviderName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return source.NetworkFailure(ProviderName, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return source.RateLimited(ProviderName, resp.StatusCode, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return source.UpstreamError(ProviderName, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	if err := json.Unmarshal(body, result); err != nil {
		return source.MalformedResponse(ProviderName, err)
	}

	return nil
}
