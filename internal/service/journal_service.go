package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
)

// JournalService handles the read side of the journal (calendar day stats,
// day drill-down, KPIs) and the aggregation pass that derives day stats
// from canonical trades.
type JournalService struct {
	tradeRepo   *repository.TradeRepository
	dayStatRepo *repository.DayStatRepository

	// monthCache holds rendered month summaries keyed user|month. Entries
	// are dropped wholesale whenever any of the user's data changes; at
	// personal-journal scale that is cheaper than tracking affected months.
	monthCache *gocache.Cache
}

// NewJournalService creates a new JournalService with the provided repository dependencies.
func NewJournalService(
	tradeRepo *repository.TradeRepository,
	dayStatRepo *repository.DayStatRepository,
) *JournalService {
	return &JournalService{
		tradeRepo:   tradeRepo,
		dayStatRepo: dayStatRepo,
		monthCache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// DaySummary is the wire shape of one calendar day.
type DaySummary struct {
	Date       string           `json:"date"`
	PnL        float64          `json:"pnl"`
	Volume     float64          `json:"volume"`
	Categories []model.Category `json:"categories"`
}

// DayDetail is the drill-down shape for a single date: the day's stats plus
// its trades grouped by category.
type DayDetail struct {
	Date       string                   `json:"date"`
	PnL        float64                  `json:"pnl"`
	Volume     float64                  `json:"volume"`
	Categories []model.Category         `json:"categories"`
	Trades     map[string][]TradeDetail `json:"trades"`
}

// TradeDetail is one trade inside a day drill-down.
type TradeDetail struct {
	ID       string         `json:"id"`
	Market   string         `json:"market"`
	Category model.Category `json:"category"`
	Entry    *float64       `json:"entry,omitempty"`
	Exit     *float64       `json:"exit,omitempty"`
	Outcome  model.Outcome  `json:"outcome"`
	PnL      float64        `json:"pnl"`
}

// RecomputeDayStats rebuilds every day aggregate for the user by a full
// rescan of their canonical trades. An empty trade set produces no
// aggregates and is not an error. The recompute deletes first so dates
// whose trades vanished do not leave stale rows behind.
func (s *JournalService) RecomputeDayStats(ctx context.Context, userID string) error {
	trades, err := s.tradeRepo.GetTrades(userID)
	if err != nil {
		return err
	}

	stats := AggregateTrades(userID, trades)

	if err := s.dayStatRepo.DeleteDayStats(ctx, userID); err != nil {
		return err
	}
	if err := s.dayStatRepo.UpsertDayStats(ctx, stats); err != nil {
		return err
	}

	s.invalidateUser(userID)
	return nil
}

// AggregateTrades groups trades by UTC execution date and computes the
// per-day aggregate: volume is the sum of gross volumes, pnl the sum of
// cash-flow marks (sells +, buys −, fees subtracted), categories the
// distinct set present that day. Results are sorted by date.
func AggregateTrades(userID string, trades []model.Trade) []model.DayStat {
	byDate := make(map[string]*model.DayStat)
	categorySets := make(map[string]map[model.Category]bool)

	for _, t := range trades {
		key := t.Date.UTC().Format("2006-01-02")
		stat, ok := byDate[key]
		if !ok {
			stat = &model.DayStat{UserID: userID, Date: utcDate(t.Date)}
			byDate[key] = stat
			categorySets[key] = make(map[model.Category]bool)
		}

		stat.Volume += t.Volume
		stat.PnL += t.CashFlowPnL()
		categorySets[key][t.Category] = true
	}

	stats := make([]model.DayStat, 0, len(byDate))
	for key, stat := range byDate {
		stat.PnL = round2(stat.PnL)
		stat.Volume = round2(stat.Volume)

		categories := make([]model.Category, 0, len(categorySets[key]))
		for c := range categorySets[key] {
			categories = append(categories, c)
		}
		sort.Slice(categories, func(i, j int) bool { return categories[i] < categories[j] })
		stat.Categories = categories

		stats = append(stats, *stat)
	}

	sort.Slice(stats, func(i, j int) bool { return stats[i].Date.Before(stats[j].Date) })
	return stats
}

// GetDaySummaries returns the user's day stats for one month (YYYY-MM),
// ordered by date. Months with no activity yield an empty slice.
func (s *JournalService) GetDaySummaries(userID, month string) ([]DaySummary, error) {
	cacheKey := userID + "|" + month
	if cached, ok := s.monthCache.Get(cacheKey); ok {
		return cached.([]DaySummary), nil
	}

	start, end, err := MonthRange(month)
	if err != nil {
		return nil, err
	}

	stats, err := s.dayStatRepo.GetDayStatsRange(userID, start, end)
	if err != nil {
		return nil, err
	}

	summaries := make([]DaySummary, 0, len(stats))
	for _, stat := range stats {
		summaries = append(summaries, DaySummary{
			Date:       stat.DateString(),
			PnL:        stat.PnL,
			Volume:     stat.Volume,
			Categories: stat.Categories,
		})
	}

	s.monthCache.Set(cacheKey, summaries, gocache.DefaultExpiration)
	return summaries, nil
}

// GetDayDetail returns the drill-down for one date. A date with no data is
// not an error: the result has zero stats and no trades.
func (s *JournalService) GetDayDetail(userID string, date time.Time) (DayDetail, error) {
	detail := DayDetail{
		Date:       date.UTC().Format("2006-01-02"),
		Categories: []model.Category{},
		Trades:     map[string][]TradeDetail{},
	}

	stat, found, err := s.dayStatRepo.GetDayStat(userID, date)
	if err != nil {
		return DayDetail{}, err
	}
	if found {
		detail.PnL = stat.PnL
		detail.Volume = stat.Volume
		detail.Categories = stat.Categories
	}

	trades, err := s.tradeRepo.GetTradesByDate(userID, date)
	if err != nil {
		return DayDetail{}, err
	}

	for _, t := range trades {
		detail.Trades[string(t.Category)] = append(detail.Trades[string(t.Category)], TradeDetail{
			ID:       t.ID,
			Market:   t.MarketTitle,
			Category: t.Category,
			Entry:    t.Entry,
			Exit:     t.Exit,
			Outcome:  t.Outcome,
			PnL:      t.PnL,
		})
	}

	return detail, nil
}

// GetMonthKPIs computes the KPI summary over one month's day stats.
func (s *JournalService) GetMonthKPIs(userID, month string) (model.KPISummary, error) {
	start, end, err := MonthRange(month)
	if err != nil {
		return model.KPISummary{}, err
	}

	stats, err := s.dayStatRepo.GetDayStatsRange(userID, start, end)
	if err != nil {
		return model.KPISummary{}, err
	}

	return ComputeKPIs(stats), nil
}

// MonthRange resolves a YYYY-MM month string to its first and last UTC
// calendar dates.
func MonthRange(month string) (time.Time, time.Time, error) {
	start, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid month %q: %w", month, err)
	}
	start = start.UTC()
	end := start.AddDate(0, 1, -1)
	return start, end, nil
}

func (s *JournalService) invalidateUser(userID string) {
	prefix := userID + "|"
	for key := range s.monthCache.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			s.monthCache.Delete(key)
		}
	}
}
