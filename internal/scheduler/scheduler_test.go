package scheduler_test

import (
	"context"
	"testing"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/scheduler"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/testutil"
)

type mapResolver map[string]float64

func (r mapResolver) ResolutionPrice(_ context.Context, marketID string) (*float64, error) {
	price, ok := r[marketID]
	if !ok {
		return nil, nil
	}
	return &price, nil
}

// TestRunOnce tests one full refresh pass over multiple users.
func TestRunOnce(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fillRepo := repository.NewFillRepository(db)
	journal := testutil.NewTestJournalService(t, db)
	resolution := testutil.NewTestResolutionService(t, db, mapResolver{"m1": 1})
	sched := scheduler.New(fillRepo, resolution, journal)

	userA := testutil.MakeID()
	userB := testutil.MakeID()

	fillA := testutil.NewFill(userA).WithMarket("m1", "Closed Market").Buy().WithPrice(0.4).WithQuantity(10).Build(t, db)
	testutil.NewTrade(userA).Buy(0.4).WithQuantity(10).WithSourceFill(fillA.ID).Build(t, db)

	fillB := testutil.NewFill(userB).WithMarket("m2", "Open Market").Buy().WithPrice(0.5).WithQuantity(10).Build(t, db)
	testutil.NewTrade(userB).Buy(0.5).WithQuantity(10).WithSourceFill(fillB.ID).Build(t, db)

	if err := sched.RunOnce(context.Background()); err != nil {
		t.Fatalf("RunOnce failed: %v", err)
	}

	var outcome string
	if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ?`, userA).Scan(&outcome); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if outcome != string(model.OutcomeWin) {
		t.Errorf("Expected user A trade resolved to win, got %s", outcome)
	}

	if err := db.QueryRow(`SELECT outcome FROM journal_trade WHERE user_id = ?`, userB).Scan(&outcome); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if outcome != string(model.OutcomeOpen) {
		t.Errorf("Expected user B trade still open, got %s", outcome)
	}

	// Day stats got rebuilt for both users.
	var stats int
	if err := db.QueryRow(`SELECT COUNT(*) FROM day_stat`).Scan(&stats); err != nil {
		t.Fatalf("Query failed: %v", err)
	}
	if stats != 2 {
		t.Errorf("Expected 2 day stats, got %d", stats)
	}
}

// TestStart tests cron spec handling.
func TestStart(t *testing.T) {
	db := testutil.SetupTestDB(t)
	sched := scheduler.New(
		repository.NewFillRepository(db),
		testutil.NewTestResolutionService(t, db, nil),
		testutil.NewTestJournalService(t, db),
	)

	t.Run("empty spec disables scheduling", func(t *testing.T) {
		if err := sched.Start(""); err != nil {
			t.Errorf("Expected disabled scheduler to start cleanly, got %v", err)
		}
	})

	t.Run("malformed spec errors", func(t *testing.T) {
		if err := sched.Start("not a cron spec"); err == nil {
			t.Error("Expected error for malformed spec")
		}
	})
}
