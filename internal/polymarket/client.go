package polymarket

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
)

// Resolver looks up the settlement price of a market once the underlying
// event outcome is known. Implementations return nil when the market has
// not resolved yet. The interface enables stubbing in tests and in the
// scheduler.
type Resolver interface {
	ResolutionPrice(ctx context.Context, marketID string) (*float64, error)
}

const defaultGammaBaseURL = "https://gamma-api.polymarket.com"

// GammaClient fetches market metadata from the public Polymarket Gamma API.
type GammaClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewGammaClient creates a Gamma API client with default HTTP settings.
func NewGammaClient() *GammaClient {
	return &GammaClient{
		httpClient: &http.Client{},
		baseURL:    defaultGammaBaseURL,
	}
}

// NewGammaClientWithBaseURL creates a client against a non-default endpoint,
// used by tests to point at a local stub server.
func NewGammaClientWithBaseURL(baseURL string) *GammaClient {
	return &GammaClient{
		httpClient: &http.Client{},
		baseURL:    baseURL,
	}
}

// gammaMarket is the subset of the Gamma market payload we consume.
// OutcomePrices is a JSON-encoded array of decimal strings.
type gammaMarket struct {
	ID            string `json:"id"`
	Closed        bool   `json:"closed"`
	OutcomePrices string `json:"outcomePrices"`
}

// ResolutionPrice returns the first outcome price of a closed market, or nil
// when the market is still open.
func (c *GammaClient) ResolutionPrice(ctx context.Context, marketID string) (*float64, error) {
	if marketID == "" {
		return nil, fmt.Errorf("market id is required")
	}

	queryURL := fmt.Sprintf("%s/markets/%s", c.baseURL, url.PathEscape(marketID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gamma api returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var market gammaMarket
	if err := json.Unmarshal(data, &market); err != nil {
		return nil, fmt.Errorf("failed to decode gamma market: %w", err)
	}

	if !market.Closed || market.OutcomePrices == "" {
		return nil, nil
	}

	var prices []string
	if err := json.Unmarshal([]byte(market.OutcomePrices), &prices); err != nil {
		return nil, fmt.Errorf("failed to decode outcome prices: %w", err)
	}
	if len(prices) == 0 {
		return nil, nil
	}

	price, err := strconv.ParseFloat(prices[0], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid outcome price %q: %w", prices[0], err)
	}
	return &price, nil
}
