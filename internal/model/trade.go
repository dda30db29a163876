package model

import "time"

// Outcome describes the resolution state of a trade.
type Outcome string

const (
	OutcomeOpen Outcome = "open"
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// Trade is the durable, canonical unit of trading activity derived from a
// fill at import time. At most one Trade exists per (user, source fill id);
// re-importing the same fill overwrites rather than duplicates.
//
// Entry is set iff the fill side was buy, Exit iff it was sell. PnL and
// Outcome are placeholders (0, open) until the market's resolution price is
// known and the resolution pass recomputes them.
type Trade struct {
	ID           string    `json:"id"`
	UserID       string    `json:"userId"`
	Date         time.Time `json:"date"` // UTC calendar date of execution
	MarketID     string    `json:"marketId"`
	MarketTitle  string    `json:"marketTitle"`
	Category     Category  `json:"category"`
	Side         Side      `json:"side"`
	Entry        *float64  `json:"entry,omitempty"`
	Exit         *float64  `json:"exit,omitempty"`
	Fee          float64   `json:"fee"`
	PnL          float64   `json:"pnl"`
	Outcome      Outcome   `json:"outcome"`
	Volume       float64   `json:"volume"` // |price × quantity|
	Quantity     float64   `json:"quantity"`
	SourceFillID string    `json:"sourceFillId"`
	CreatedAt    time.Time `json:"createdAt,omitempty"`
}

// CashFlowPnL is the signed cash-flow mark of the trade: sells contribute
// +price×qty, buys −price×qty, fees always subtracted. This is the number
// day aggregates are built from; it is distinct from the resolution-based
// PnL field above and the two must not be confused.
func (t Trade) CashFlowPnL() float64 {
	sign := -1.0
	if t.Side == SideSell {
		sign = 1.0
	}
	price := 0.0
	if t.Entry != nil {
		price = *t.Entry
	}
	if t.Exit != nil {
		price = *t.Exit
	}
	return sign*price*t.Quantity - t.Fee
}
