package service_test

import (
	"context"
	"math"
	"testing"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/testutil"
)

// stubResolver answers settlement lookups from a fixed table.
type stubResolver struct {
	prices map[string]float64
}

func (r *stubResolver) ResolutionPrice(_ context.Context, marketID string) (*float64, error) {
	price, ok := r.prices[marketID]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

// TestUpdateResolutions tests the pnl and outcome recompute over resolved fills.
//
// WHY: Resolution is where the journal decides winners and losers. The side
// formulas are mirror images and the tie case (pnl exactly 0) counts as a
// win; both rules come straight from how binary markets settle.
func TestUpdateResolutions(t *testing.T) {
	ctx := context.Background()

	t.Run("buy and sell formulas", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)
		userID := testutil.MakeID()

		// Buy at 0.4, resolves to 1: pnl = (1 - 0.4) * 10 = +6.
		buyFill := testutil.NewFill(userID).Buy().WithPrice(0.4).WithQuantity(10).Resolved(1).Build(t, db)
		testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(buyFill.ID).Build(t, db)

		// Sell at 0.4, resolves to 1: pnl = (0.4 - 1) * 10 = -6.
		sellFill := testutil.NewFill(userID).Sell().WithPrice(0.4).WithQuantity(10).Resolved(1).Build(t, db)
		testutil.NewTrade(userID).Sell(0.4).WithQuantity(10).WithSourceFill(sellFill.ID).Build(t, db)

		updated, err := svc.UpdateResolutions(ctx, userID)
		if err != nil {
			t.Fatalf("UpdateResolutions failed: %v", err)
		}
		if updated != 2 {
			t.Errorf("Expected 2 updated, got %d", updated)
		}

		var pnl float64
		var outcome string
		if err := db.QueryRow(`SELECT pnl, outcome FROM journal_trade WHERE user_id = ? AND source_fill_id = ?`,
			userID, buyFill.ID).Scan(&pnl, &outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if math.Abs(pnl-6) > 1e-9 || outcome != string(model.OutcomeWin) {
			t.Errorf("Expected buy (+6, win), got (%f, %s)", pnl, outcome)
		}

		if err := db.QueryRow(`SELECT pnl, outcome FROM journal_trade WHERE user_id = ? AND source_fill_id = ?`,
			userID, sellFill.ID).Scan(&pnl, &outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if math.Abs(pnl-(-6)) > 1e-9 || outcome != string(model.OutcomeLoss) {
			t.Errorf("Expected sell (-6, loss), got (%f, %s)", pnl, outcome)
		}
	})

	t.Run("zero pnl counts as win", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)
		userID := testutil.MakeID()

		fill := testutil.NewFill(userID).Buy().WithPrice(0.5).WithQuantity(10).Resolved(0.5).Build(t, db)
		testutil.NewTrade(userID).Buy(0.5).WithQuantity(10).WithSourceFill(fill.ID).Build(t, db)

		if _, err := svc.UpdateResolutions(ctx, userID); err != nil {
			t.Fatalf("UpdateResolutions failed: %v", err)
		}

		var outcome string
		if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ?`, userID).Scan(&outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if outcome != string(model.OutcomeWin) {
			t.Errorf("Expected win on zero pnl, got %s", outcome)
		}
	})

	t.Run("unresolved fills are untouched", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)
		userID := testutil.MakeID()

		fill := testutil.NewFill(userID).Buy().WithPrice(0.5).WithQuantity(10).Build(t, db)
		testutil.NewTrade(userID).Buy(0.5).WithQuantity(10).WithSourceFill(fill.ID).Build(t, db)

		updated, err := svc.UpdateResolutions(ctx, userID)
		if err != nil {
			t.Fatalf("UpdateResolutions failed: %v", err)
		}
		if updated != 0 {
			t.Errorf("Expected 0 updated, got %d", updated)
		}

		var outcome string
		if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ?`, userID).Scan(&outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if outcome != string(model.OutcomeOpen) {
			t.Errorf("Expected open, got %s", outcome)
		}
	})

	t.Run("re-running the pass is idempotent", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)
		userID := testutil.MakeID()

		fill := testutil.NewFill(userID).Buy().WithPrice(0.4).WithQuantity(10).Resolved(1).Build(t, db)
		testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(fill.ID).Build(t, db)

		for i := 0; i < 2; i++ {
			if _, err := svc.UpdateResolutions(ctx, userID); err != nil {
				t.Fatalf("Pass %d failed: %v", i+1, err)
			}
		}

		var pnl float64
		if err := db.QueryRow(`SELECT pnl FROM journal_trade WHERE user_id = ?`, userID).Scan(&pnl); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if math.Abs(pnl-6) > 1e-9 {
			t.Errorf("Expected pnl 6 after repeated passes, got %f", pnl)
		}
	})
}

// TestStampResolution tests the manual stamp path.
func TestStampResolution(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps every fill in the market and resolves", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)
		userID := testutil.MakeID()

		f1 := testutil.NewFill(userID).WithMarket("m1", "Some Market").Buy().WithPrice(0.4).WithQuantity(10).Build(t, db)
		f2 := testutil.NewFill(userID).WithMarket("m1", "Some Market").Sell().WithPrice(0.8).WithQuantity(5).Build(t, db)
		testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(f1.ID).Build(t, db)
		testutil.NewTrade(userID).Sell(0.8).WithQuantity(5).WithSourceFill(f2.ID).Build(t, db)

		stamped, err := svc.StampResolution(ctx, userID, "m1", 1)
		if err != nil {
			t.Fatalf("StampResolution failed: %v", err)
		}
		if stamped != 2 {
			t.Errorf("Expected 2 stamped, got %d", stamped)
		}

		var wins int
		if err := db.QueryRow(`SELECT COUNT(*) FROM journal_trade WHERE user_id = ? AND outcome != 'open'`, userID).Scan(&wins); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if wins != 2 {
			t.Errorf("Expected both trades resolved, got %d", wins)
		}
	})

	t.Run("unknown market stamps nothing", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)

		stamped, err := svc.StampResolution(ctx, testutil.MakeID(), "missing", 1)
		if err != nil {
			t.Fatalf("StampResolution failed: %v", err)
		}
		if stamped != 0 {
			t.Errorf("Expected 0 stamped, got %d", stamped)
		}
	})
}

// TestFetchResolutions tests the resolver-driven path used by the scheduler.
func TestFetchResolutions(t *testing.T) {
	ctx := context.Background()

	t.Run("stamps prices the resolver knows and skips the rest", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		resolver := &stubResolver{prices: map[string]float64{"m1": 1}}
		svc := testutil.NewTestResolutionService(t, db, resolver)
		userID := testutil.MakeID()

		f1 := testutil.NewFill(userID).WithMarket("m1", "Closed Market").Buy().WithPrice(0.4).WithQuantity(10).Build(t, db)
		f2 := testutil.NewFill(userID).WithMarket("m2", "Open Market").Buy().WithPrice(0.5).WithQuantity(10).Build(t, db)
		testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(f1.ID).Build(t, db)
		testutil.NewTrade(userID).Buy(0.5).WithQuantity(10).WithSourceFill(f2.ID).Build(t, db)

		resolved, err := svc.FetchResolutions(ctx, userID)
		if err != nil {
			t.Fatalf("FetchResolutions failed: %v", err)
		}
		if resolved != 1 {
			t.Errorf("Expected 1 resolved market, got %d", resolved)
		}

		var outcome string
		if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ? AND source_fill_id = ?`, userID, f1.ID).Scan(&outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if outcome != string(model.OutcomeWin) {
			t.Errorf("Expected m1 trade resolved to win, got %s", outcome)
		}

		if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ? AND source_fill_id = ?`, userID, f2.ID).Scan(&outcome); err != nil {
			t.Fatalf("Query failed: %v", err)
		}
		if outcome != string(model.OutcomeOpen) {
			t.Errorf("Expected m2 trade still open, got %s", outcome)
		}
	})

	t.Run("nil resolver is a no-op", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestResolutionService(t, db, nil)

		resolved, err := svc.FetchResolutions(ctx, testutil.MakeID())
		if err != nil {
			t.Fatalf("FetchResolutions failed: %v", err)
		}
		if resolved != 0 {
			t.Errorf("Expected 0 resolved, got %d", resolved)
		}
	})
}
