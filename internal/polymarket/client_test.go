package polymarket_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
)

// TestGammaClient_ResolutionPrice tests settlement price lookup against a
// stubbed Gamma API.
func TestGammaClient_ResolutionPrice(t *testing.T) {
	t.Run("closed market returns first outcome price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/markets/m1" {
				t.Errorf("Unexpected path %s", r.URL.Path)
			}
			fmt.Fprint(w, `{"id":"m1","closed":true,"outcomePrices":"[\"0.97\",\"0.03\"]"}`)
		}))
		defer server.Close()

		client := polymarket.NewGammaClientWithBaseURL(server.URL)
		price, err := client.ResolutionPrice(context.Background(), "m1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if price == nil || *price != 0.97 {
			t.Errorf("Expected price 0.97, got %v", price)
		}
	})

	t.Run("open market returns nil price", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"id":"m1","closed":false,"outcomePrices":"[\"0.50\",\"0.50\"]"}`)
		}))
		defer server.Close()

		client := polymarket.NewGammaClientWithBaseURL(server.URL)
		price, err := client.ResolutionPrice(context.Background(), "m1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if price != nil {
			t.Errorf("Expected nil price for open market, got %v", *price)
		}
	})

	t.Run("unknown market returns nil without error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.NotFound(w, r)
		}))
		defer server.Close()

		client := polymarket.NewGammaClientWithBaseURL(server.URL)
		price, err := client.ResolutionPrice(context.Background(), "missing")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if price != nil {
			t.Errorf("Expected nil price, got %v", *price)
		}
	})

	t.Run("server errors propagate", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		client := polymarket.NewGammaClientWithBaseURL(server.URL)
		if _, err := client.ResolutionPrice(context.Background(), "m1"); err == nil {
			t.Error("Expected error on 500 response")
		}
	})

	t.Run("empty market id is rejected", func(t *testing.T) {
		client := polymarket.NewGammaClientWithBaseURL("http://localhost:0")
		if _, err := client.ResolutionPrice(context.Background(), ""); err == nil {
			t.Error("Expected error for empty market id")
		}
	})
}
