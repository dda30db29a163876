package service_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/testutil"
)

// TestAggregateTrades tests the per-day aggregation over canonical trades.
//
// WHY: Day stats feed the calendar, the month cache and the KPI card. The
// sign convention (sells add, buys subtract, fees always subtract) and the
// 2-decimal rounding are part of the stored contract.
func TestAggregateTrades(t *testing.T) {
	date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("empty trade set yields no stats", func(t *testing.T) {
		stats := service.AggregateTrades("u1", nil)
		if len(stats) != 0 {
			t.Errorf("Expected no stats, got %d", len(stats))
		}
	})

	t.Run("one day, buy and sell", func(t *testing.T) {
		entry, exit := 0.5, 0.7
		trades := []model.Trade{
			{
				UserID: "u1", Date: date, Category: model.CategoryCrypto,
				Side: model.SideBuy, Entry: &entry, Quantity: 100, Fee: 1, Volume: 50,
			},
			{
				UserID: "u1", Date: date, Category: model.CategoryCrypto,
				Side: model.SideSell, Exit: &exit, Quantity: 50, Fee: 0, Volume: 35,
			},
		}

		stats := service.AggregateTrades("u1", trades)
		if len(stats) != 1 {
			t.Fatalf("Expected 1 day stat, got %d", len(stats))
		}

		// Buy: -(0.5*100) - 1 = -51. Sell: +(0.7*50) = +35. Net -16.
		if math.Abs(stats[0].PnL-(-16)) > 1e-9 {
			t.Errorf("Expected pnl -16, got %f", stats[0].PnL)
		}
		if math.Abs(stats[0].Volume-85) > 1e-9 {
			t.Errorf("Expected volume 85, got %f", stats[0].Volume)
		}
		if len(stats[0].Categories) != 1 || stats[0].Categories[0] != model.CategoryCrypto {
			t.Errorf("Expected categories [crypto], got %v", stats[0].Categories)
		}
	})

	t.Run("categories are distinct and sorted", func(t *testing.T) {
		entry := 0.5
		trades := []model.Trade{
			{UserID: "u1", Date: date, Category: model.CategorySports, Side: model.SideBuy, Entry: &entry, Quantity: 1},
			{UserID: "u1", Date: date, Category: model.CategoryCrypto, Side: model.SideBuy, Entry: &entry, Quantity: 1},
			{UserID: "u1", Date: date, Category: model.CategoryCrypto, Side: model.SideBuy, Entry: &entry, Quantity: 1},
		}

		stats := service.AggregateTrades("u1", trades)
		if len(stats) != 1 {
			t.Fatalf("Expected 1 day stat, got %d", len(stats))
		}
		want := []model.Category{model.CategoryCrypto, model.CategorySports}
		if len(stats[0].Categories) != 2 || stats[0].Categories[0] != want[0] || stats[0].Categories[1] != want[1] {
			t.Errorf("Expected categories %v, got %v", want, stats[0].Categories)
		}
	})

	t.Run("multiple days come back sorted by date", func(t *testing.T) {
		entry := 0.5
		later := date.AddDate(0, 0, 5)
		trades := []model.Trade{
			{UserID: "u1", Date: later, Category: model.CategoryCrypto, Side: model.SideBuy, Entry: &entry, Quantity: 1},
			{UserID: "u1", Date: date, Category: model.CategoryCrypto, Side: model.SideBuy, Entry: &entry, Quantity: 1},
		}

		stats := service.AggregateTrades("u1", trades)
		if len(stats) != 2 {
			t.Fatalf("Expected 2 day stats, got %d", len(stats))
		}
		if !stats[0].Date.Equal(date) || !stats[1].Date.Equal(later) {
			t.Errorf("Expected dates sorted ascending, got %v then %v", stats[0].Date, stats[1].Date)
		}
	})

	t.Run("values round to 2 decimals", func(t *testing.T) {
		entry := 0.333
		trades := []model.Trade{
			{UserID: "u1", Date: date, Category: model.CategoryCrypto, Side: model.SideBuy, Entry: &entry, Quantity: 10, Volume: 3.33},
		}

		stats := service.AggregateTrades("u1", trades)
		if stats[0].PnL != -3.33 {
			t.Errorf("Expected pnl -3.33, got %f", stats[0].PnL)
		}
	})
}

// TestRecomputeDayStats tests the rebuild pass against a real store.
func TestRecomputeDayStats(t *testing.T) {
	t.Run("replaces stale aggregates", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestJournalService(t, db)
		userID := testutil.MakeID()

		// Stale stat on a date with no trades.
		testutil.CreateDayStat(t, db, userID, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 500, 500, nil)

		testutil.NewTrade(userID).
			WithDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)).
			Buy(0.5).WithQuantity(100).WithFee(1).
			Build(t, db)

		if err := svc.RecomputeDayStats(context.Background(), userID); err != nil {
			t.Fatalf("Recompute failed: %v", err)
		}

		days, err := svc.GetDaySummaries(userID, "2024-03")
		if err != nil {
			t.Fatalf("GetDaySummaries failed: %v", err)
		}
		if len(days) != 1 || days[0].Date != "2024-03-15" {
			t.Fatalf("Expected one stat on 2024-03-15, got %v", days)
		}
		if days[0].PnL != -51 {
			t.Errorf("Expected pnl -51, got %f", days[0].PnL)
		}

		stale, err := svc.GetDaySummaries(userID, "2024-02")
		if err != nil {
			t.Fatalf("GetDaySummaries failed: %v", err)
		}
		if len(stale) != 0 {
			t.Errorf("Expected stale February stat removed, got %v", stale)
		}
	})

	t.Run("recompute invalidates cached months", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestJournalService(t, db)
		userID := testutil.MakeID()

		// Prime the cache with an empty month.
		if _, err := svc.GetDaySummaries(userID, "2024-03"); err != nil {
			t.Fatalf("GetDaySummaries failed: %v", err)
		}

		testutil.NewTrade(userID).
			WithDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)).
			Buy(0.5).WithQuantity(100).WithFee(1).
			Build(t, db)

		if err := svc.RecomputeDayStats(context.Background(), userID); err != nil {
			t.Fatalf("Recompute failed: %v", err)
		}

		days, err := svc.GetDaySummaries(userID, "2024-03")
		if err != nil {
			t.Fatalf("GetDaySummaries failed: %v", err)
		}
		if len(days) != 1 {
			t.Errorf("Expected fresh data after recompute, got %v", days)
		}
	})
}

// TestGetDayDetail tests the drill-down defaults and grouping.
func TestGetDayDetail(t *testing.T) {
	t.Run("date with no data returns defaults", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestJournalService(t, db)

		detail, err := svc.GetDayDetail(testutil.MakeID(), time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC))
		if err != nil {
			t.Fatalf("GetDayDetail failed: %v", err)
		}
		if detail.Date != "2024-03-15" {
			t.Errorf("Expected date echoed back, got %s", detail.Date)
		}
		if detail.PnL != 0 || detail.Volume != 0 {
			t.Errorf("Expected zero stats, got %f %f", detail.PnL, detail.Volume)
		}
		if detail.Categories == nil || len(detail.Categories) != 0 {
			t.Errorf("Expected empty categories slice, got %v", detail.Categories)
		}
		if detail.Trades == nil || len(detail.Trades) != 0 {
			t.Errorf("Expected empty trades map, got %v", detail.Trades)
		}
	})

	t.Run("trades group by category", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestJournalService(t, db)
		userID := testutil.MakeID()
		date := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

		testutil.NewTrade(userID).WithDate(date).WithCategory(model.CategoryCrypto).Build(t, db)
		testutil.NewTrade(userID).WithDate(date).WithCategory(model.CategoryCrypto).Build(t, db)
		testutil.NewTrade(userID).WithDate(date).WithCategory(model.CategoryPolitics).Build(t, db)

		if err := svc.RecomputeDayStats(context.Background(), userID); err != nil {
			t.Fatalf("Recompute failed: %v", err)
		}

		detail, err := svc.GetDayDetail(userID, date)
		if err != nil {
			t.Fatalf("GetDayDetail failed: %v", err)
		}
		if len(detail.Trades["crypto"]) != 2 {
			t.Errorf("Expected 2 crypto trades, got %d", len(detail.Trades["crypto"]))
		}
		if len(detail.Trades["politics"]) != 1 {
			t.Errorf("Expected 1 politics trade, got %d", len(detail.Trades["politics"]))
		}
	})
}

// TestMonthRange tests month string resolution.
func TestMonthRange(t *testing.T) {
	start, end, err := service.MonthRange("2024-02")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if start.Format("2006-01-02") != "2024-02-01" {
		t.Errorf("Expected start 2024-02-01, got %s", start.Format("2006-01-02"))
	}
	// 2024 is a leap year.
	if end.Format("2006-01-02") != "2024-02-29" {
		t.Errorf("Expected end 2024-02-29, got %s", end.Format("2006-01-02"))
	}

	if _, _, err := service.MonthRange("March 2024"); err == nil {
		t.Error("Expected error for malformed month")
	}
}
