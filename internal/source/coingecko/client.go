// Package coingecko provides the CoinGecko price and market-chart
// client.
//
// Endpoints used:
//   - GET /simple/price (current prices, batched per cycle)
//   - GET /coins/{id}/market_chart (historical prices)
package coingecko

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/ratelimit"
)

// ProviderName identifies this client in FetchError values and logs.
const ProviderName = "coingecko"

// Client provides access to the CoinGecko REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new CoinGecko client. All calls acquire a
// permit from limiter before touching the network.
func NewClient(baseURL, apiKey string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		limiter: limiter,
		logger:  slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
