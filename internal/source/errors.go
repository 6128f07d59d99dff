package source

import "fmt"

// Kind discriminates the failure classes a provider call can hit.
type Kind int

const (
	// KindRateLimited: the provider rejected the call with 429, or the
	// local limiter could not grant a permit before the deadline.
	KindRateLimited Kind = iota

	// KindNetworkFailure: connection error or timeout.
	KindNetworkFailure

	// KindUpstreamError: non-success response with a provider message.
	KindUpstreamError

	// KindMalformedResponse: the payload did not match the expected schema.
	KindMalformedResponse
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	case KindNetworkFailure:
		return "network_failure"
	case KindUpstreamError:
		return "upstream_error"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// FetchError is the uniform failure value returned by source clients.
type FetchError struct {
	Provider string // Provider name (e.g., "coingecko")
	Kind     Kind   // Failure class
	Status   int    // HTTP status, 0 when not applicable
	Message  string // Provider or local detail
	Err      error  // Underlying cause, nil when not applicable
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s %d: %s", e.Provider, e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// RateLimited builds a rate-limit FetchError.
func RateLimited(provider string, status int, err error) *FetchError {
	return &FetchError{
		Provider: provider,
		Kind:     KindRateLimited,
		Status:   status,
		Message:  "rate limit exceeded",
		Err:      err,
	}
}

// NetworkFailure builds a connection/timeout FetchError.
func NetworkFailure(provider string, err error) *FetchError {
	return &FetchError{
		Provider: provider,
		Kind:     KindNetworkFailure,
		Message:  err.Error(),
		Err:      err,
	}
}

// UpstreamError builds a non-success-response FetchError.
func UpstreamError(provider string, status int, message string) *FetchError {
	return &FetchError{
		Provider: provider,
		Kind:     KindUpstreamError,
		Status:   status,
		Message:  message,
	}
}

// MalformedResponse builds a schema-mismatch FetchError.
func MalformedResponse(provider string, err error) *FetchError {
	return &FetchError{
		Provider: provider,
		Kind:     KindMalformedResponse,
		Message:  err.Error(),
		Err:      err,
	}
}
