// Package defillama provides the DeFiLlama protocol TVL client.
//
// Endpoint used: GET /protocol/{slug}. No API key is required.
package defillama

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/ratelimit"
)

// ProviderName identifies this client in FetchError values and logs.
const ProviderName = "defillama"

// Client provides access to the DeFiLlama API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	logger     *slog.Logger
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a new DeFiLlama client.
func NewClient(baseURL string, limiter *ratelimit.Limiter, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: baseURL,
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
