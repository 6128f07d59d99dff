package etherscan

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/pegwatch/stablecoin-data/internal/source"
)

// envelope is the common Etherscan response wrapper. Status "1" means
// success; anything else carries a provider message.
type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Result  json.RawMessage `json:"result"`
}

// GetTokenSupply fetches the current token supply for a contract, in
// base units.
func (c *Client) GetTokenSupply(ctx context.Context, contract string) (int64, error) {
	query := url.Values{}
	query.Set("module", "stats")
	query.Set("action", "tokensupply")
	query.Set("contractaddress", contract)

	env, err := c.call(ctx, query)
	if err != nil {
		return 0, err
	}

	var raw string
	if err := json.Unmarshal(env.Result, &raw); err != nil {
		return 0, source.MalformedResponse(ProviderName, err)
	}
	supply, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, source.MalformedResponse(ProviderName, fmt.Errorf("parse token supply %q: %w", raw, err))
	}

	return supply, nil
}

// GetTokenHolders fetches the holder count for a contract. The
// provider returns the holder list; the count is its length.
func (c *Client) GetTokenHolders(ctx context.Context, contract string) (int64, error) {
	query := url.Values{}
	query.Set("module", "token")
	query.Set("action", "tokenholderlist")
	query.Set("contractaddress", contract)

	env, err := c.call(ctx, query)
	if err != nil {
		return 0, err
	}

	var holders []json.RawMessage
	if err := json.Unmarshal(env.Result, &holders); err != nil {
		return 0, source.MalformedResponse(ProviderName, err)
	}

	return int64(len(holders)), nil
}

// call performs a rate-limited GET against the single /api entry
// point and unwraps the Etherscan envelope.
func (c *Client) call(ctx context.Context, query url.Values) (*envelope, error) {
	if err := c.limiter.Acquire(ctx); err != nil {
		return nil, source.RateLimited(ProviderName, 0, err)
	}

	if c.apiKey != "" {
		query.Set("apikey", c.apiKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+query.Encode(), nil)
	if err != nil {
		return nil, source.NetworkFailure(ProviderName, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, source.NetworkFailure(ProviderName, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, source.NetworkFailure(ProviderName, err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, source.RateLimited(ProviderName, resp.StatusCode, nil)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, source.UpstreamError(ProviderName, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, source.MalformedResponse(ProviderName, err)
	}
	if env.Status != "1" {
		return nil, source.UpstreamError(ProviderName, resp.StatusCode, env.Message)
	}

	return &env, nil
}
