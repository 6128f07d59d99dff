package etherscan

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pegwatch/stablecoin-data/internal/ratelimit"
	"github.com/pegwatch/stablecoin-data/internal/source"
)

const testContract = "0xdAC17F958D2ee523a2206206994597C13D831ec7"

func testLimiter() *ratelimit.Limiter {
	return ratelimit.New(1000, time.Second)
}

func TestGetTokenSupply(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var gotQuery map[string]string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotQuery = map[string]string{
				"module":          r.URL.Query().Get("module"),
				"action":          r.URL.Query().Get("action"),
				"contractaddress": r.URL.Query().Get("contractaddress"),
				"apikey":          r.URL.Query().Get("apikey"),
			}
			w.Write([]byte(`{"status": "1", "message": "OK", "result": "120000000000000000"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "test-key", testLimiter())
		supply, err := c.GetTokenSupply(context.Background(), testContract)
		if err != nil {
			t.Fatalf("GetTokenSupply failed: %v", err)
		}

		if supply != 120000000000000000 {
			t.Errorf("supply = %d, want 120000000000000000", supply)
		}
		if gotQuery["module"] != "stats" || gotQuery["action"] != "tokensupply" {
			t.Errorf("wrong endpoint params: %v", gotQuery)
		}
		if gotQuery["contractaddress"] != testContract {
			t.Errorf("contractaddress = %q, want %q", gotQuery["contractaddress"], testContract)
		}
		if gotQuery["apikey"] != "test-key" {
			t.Errorf("apikey = %q, want %q", gotQuery["apikey"], "test-key")
		}
	})

	t.Run("provider status zero maps to upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "0", "message": "NOTOK", "result": "Max rate limit reached"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())
		_, err := c.GetTokenSupply(context.Background(), testContract)

		var fe *source.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error %T is not a *source.FetchError: %v", err, err)
		}
		if fe.Kind != source.KindUpstreamError {
			t.Errorf("Kind = %v, want upstream_error", fe.Kind)
		}
		if fe.Message != "NOTOK" {
			t.Errorf("Message = %q, want provider message %q", fe.Message, "NOTOK")
		}
	})

	t.Run("non-numeric supply maps to malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "1", "message": "OK", "result": "not-a-number"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())
		_, err := c.GetTokenSupply(context.Background(), testContract)

		var fe *source.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error %T is not a *source.FetchError: %v", err, err)
		}
		if fe.Kind != source.KindMalformedResponse {
			t.Errorf("Kind = %v, want malformed_response", fe.Kind)
		}
	})

	t.Run("http error maps to upstream error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())
		_, err := c.GetTokenSupply(context.Background(), testContract)

		var fe *source.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error %T is not a *source.FetchError: %v", err, err)
		}
		if fe.Kind != source.KindUpstreamError || fe.Status != http.StatusServiceUnavailable {
			t.Errorf("got %v/%d, want upstream_error/503", fe.Kind, fe.Status)
		}
	})
}

func TestGetTokenHolders(t *testing.T) {
	t.Run("count is result length", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("action") != "tokenholderlist" {
				t.Errorf("action = %q, want tokenholderlist", r.URL.Query().Get("action"))
			}
			w.Write([]byte(`{"status": "1", "message": "OK", "result": [
				{"TokenHolderAddress": "0x1", "TokenHolderQuantity": "100"},
				{"TokenHolderAddress": "0x2", "TokenHolderQuantity": "200"},
				{"TokenHolderAddress": "0x3", "TokenHolderQuantity": "300"}
			]}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())
		holders, err := c.GetTokenHolders(context.Background(), testContract)
		if err != nil {
			t.Fatalf("GetTokenHolders failed: %v", err)
		}
		if holders != 3 {
			t.Errorf("holders = %d, want 3", holders)
		}
	})

	t.Run("non-array result maps to malformed response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status": "1", "message": "OK", "result": "oops"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())
		_, err := c.GetTokenHolders(context.Background(), testContract)

		var fe *source.FetchError
		if !errors.As(err, &fe) {
			t.Fatalf("error %T is not a *source.FetchError: %v", err, err)
		}
		if fe.Kind != source.KindMalformedResponse {
			t.Errorf("Kind = %v, want malformed_response", fe.Kind)
		}
	})

	t.Run("supply and holders fail independently", func(t *testing.T) {
		// Holder endpoint down, supply endpoint fine.
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("action") == "tokenholderlist" {
				w.Write([]byte(`{"status": "0", "message": "NOTOK", "result": ""}`))
				return
			}
			w.Write([]byte(`{"status": "1", "message": "OK", "result": "42"}`))
		}))
		defer server.Close()

		c := NewClient(server.URL, "", testLimiter())

		supply, err := c.GetTokenSupply(context.Background(), testContract)
		if err != nil {
			t.Fatalf("GetTokenSupply failed: %v", err)
		}
		if supply != 42 {
			t.Errorf("supply = %d, want 42", supply)
		}

		if _, err := c.GetTokenHolders(context.Background(), testContract); err == nil {
			t.Error("expected holder fetch to fail")
		}
	})
}
