package model

import "time"

// TradeNote is an optional annotation on a single trade: free-text notes,
// an ordered list of screenshot storage references and an optional
// AI-analysis blob. Keyed uniquely per (user, trade id) with a lifecycle
// independent of the trade itself.
type TradeNote struct {
	UserID      string    `json:"-"`
	TradeID     string    `json:"tradeId,omitempty"`
	Notes       string    `json:"notes"`
	Screenshots []string  `json:"screenshots"`
	AIAnalysis  *string   `json:"ai_analysis"`
	UpdatedAt   time.Time `json:"-"`
}
