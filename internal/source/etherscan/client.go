// Package etherscan provides the Etherscan on-chain data client.
//
// Endpoints used (all through the single /api entry point):
//   - module=stats&action=tokensupply (current token supply)
//   - module=token&action=tokenholderlist (holder count)
package etherscan

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/ratelimit"
)

// ProviderName identifies this client in FetchError values and logs.
const ProviderName = "etherscan"

// Client provides access to the Etherscan API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new Etherscan client.
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
