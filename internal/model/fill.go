package model

import "time"

// Side is the direction of a fill.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ValidSide contains the allowed side values.
var ValidSide = map[Side]bool{
	SideBuy: true, SideSell: true,
}

// Fill is the raw audit record of one executed trade as reported by the
// source venue. Fills are stored as-received (plus the raw payload) and are
// not authoritative; the canonical record is the Trade derived from them.
// Uniqueness is per (user, fill id).
type Fill struct {
	ID              string    `json:"id"`
	UserID          string    `json:"userId"`
	Wallet          string    `json:"wallet,omitempty"`
	MarketID        string    `json:"marketId"`
	MarketTitle     string    `json:"marketTitle"`
	Side            Side      `json:"side"`
	Price           float64   `json:"price"`
	Quantity        float64   `json:"quantity"`
	Fee             float64   `json:"fee"`
	Timestamp       time.Time `json:"timestamp"`
	TxHash          string    `json:"txHash,omitempty"`
	ResolutionPrice *float64  `json:"resolutionPrice,omitempty"`
	RawJSON         string    `json:"-"`
	ImportedAt      time.Time `json:"importedAt,omitempty"`
}
