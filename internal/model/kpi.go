package model

// KPISummary carries the portfolio KPIs computed over a set of day stats.
//
// ProfitFactor uses 99 as the "effectively infinite" sentinel when there are
// gains but no losing days.
type KPISummary struct {
	NetPnL       float64 `json:"netPnL"`
	WinRate      float64 `json:"winRate"`
	Grade        string  `json:"grade"`
	ProfitFactor float64 `json:"profitFactor"`
}

// ProfitFactorInfinite is the sentinel returned when losses sum to zero and
// gains are positive.
const ProfitFactorInfinite = 99.0
