package request

// UpsertTradeNoteRequest is the body of POST /api/journal/trade-notes.
type UpsertTradeNoteRequest struct {
	TradeID     string   `json:"trade_id"`
	Notes       string   `json:"notes"`
	Screenshots []string `json:"screenshots"`
}

// StampResolutionRequest is the body of POST /api/journal/resolutions. It
// records a known settlement price for every fill the caller holds in the
// market.
type StampResolutionRequest struct {
	MarketID        string   `json:"market_id"`
	ResolutionPrice *float64 `json:"resolution_price"`
}
