package model

import "time"

// DayStat is the per-(user, UTC date) aggregate over that day's trades.
// It is derived data: recomputable at any time by rescanning the user's
// trades, and never the sole source of truth.
//
// PnL here is the cash-flow mark (see Trade.CashFlowPnL), not the
// resolution-based per-trade PnL.
type DayStat struct {
	UserID     string     `json:"-"`
	Date       time.Time  `json:"-"`
	PnL        float64    `json:"pnl"`
	Volume     float64    `json:"volume"`
	Categories []Category `json:"categories"`
	UpdatedAt  time.Time  `json:"-"`
}

// DateString renders the stat's date as the YYYY-MM-DD key used on the wire
// and in the store.
func (d DayStat) DateString() string {
	return d.Date.UTC().Format("2006-01-02")
}
