package service

import "github.com/quantjournal/Polymarket-Journal-Backend/internal/model"

// gradeBand maps a win-rate floor to its letter grade. Bands are evaluated
// top-down; the lower bound is inclusive.
type gradeBand struct {
	Floor float64
	Grade string
}

var gradeBands = []gradeBand{
	{90, "A+"},
	{85, "A"},
	{80, "A-"},
	{75, "B+"},
	{70, "B"},
	{65, "B-"},
	{60, "C+"},
}

// ComputeKPIs derives the portfolio KPIs from a set of day stats. The
// computation is pure and total: it never fails for any finite input,
// including an empty one.
//
// winRate counts days with positive pnl over all days. profitFactor is the
// ratio of positive-day gains to the magnitude of negative-day losses, with
// 99 standing in for "effectively infinite" when there are no losing days.
func ComputeKPIs(days []model.DayStat) model.KPISummary {
	var netPnL, gains, losses float64
	wins := 0
	for _, d := range days {
		netPnL += d.PnL
		if d.PnL > 0 {
			wins++
			gains += d.PnL
		} else if d.PnL < 0 {
			losses += -d.PnL
		}
	}

	winRate := 0.0
	if len(days) > 0 {
		winRate = float64(wins) / float64(len(days)) * 100
	}

	profitFactor := 0.0
	switch {
	case losses > 0:
		profitFactor = gains / losses
	case gains > 0:
		profitFactor = model.ProfitFactorInfinite
	}

	return model.KPISummary{
		NetPnL:       netPnL,
		WinRate:      winRate,
		Grade:        gradeFor(winRate),
		ProfitFactor: profitFactor,
	}
}

func gradeFor(winRate float64) string {
	for _, band := range gradeBands {
		if winRate >= band.Floor {
			return band.Grade
		}
	}
	return "C"
}
