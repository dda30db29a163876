package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/handlers"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/testutil"
)

// TestJournalHandler_DayStats tests the calendar month endpoint.
func TestJournalHandler_DayStats(t *testing.T) {
	t.Run("GET day-stats returns the month's days", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		journal := testutil.NewTestJournalService(t, db)
		handler := handlers.NewJournalHandler(journal, testutil.NewTestResolutionService(t, db, nil))
		userID := testutil.MakeID()

		testutil.CreateDayStat(t, db, userID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			125.5, 300, []model.Category{model.CategoryCrypto})

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/day-stats?month=2024-03", userID, nil)
		w := httptest.NewRecorder()

		handler.DayStats(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Days []struct {
				Date       string   `json:"date"`
				PnL        float64  `json:"pnl"`
				Volume     float64  `json:"volume"`
				Categories []string `json:"categories"`
			} `json:"days"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if len(resp.Days) != 1 {
			t.Fatalf("Expected 1 day, got %d", len(resp.Days))
		}
		if resp.Days[0].Date != "2024-03-15" || resp.Days[0].PnL != 125.5 {
			t.Errorf("Unexpected day: %+v", resp.Days[0])
		}
	})

	t.Run("month with no data returns an empty list", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/day-stats?month=2024-03", testutil.MakeID(), nil)
		w := httptest.NewRecorder()

		handler.DayStats(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			Days []any `json:"days"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.Days == nil || len(resp.Days) != 0 {
			t.Errorf("Expected empty days array, got %v", resp.Days)
		}
	})

	t.Run("malformed month is a 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		for _, month := range []string{"", "March", "2024-13", "2024-3"} {
			req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/day-stats?month="+month, testutil.MakeID(), nil)
			w := httptest.NewRecorder()

			handler.DayStats(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("month %q: expected status 400, got %d", month, w.Code)
			}
		}
	})
}

// TestJournalHandler_DayDetail tests the drill-down endpoint.
func TestJournalHandler_DayDetail(t *testing.T) {
	t.Run("date with no data returns defaults, not an error", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/day-detail?date=2024-03-15", testutil.MakeID(), nil)
		w := httptest.NewRecorder()

		handler.DayDetail(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp struct {
			Date       string           `json:"date"`
			PnL        float64          `json:"pnl"`
			Categories []string         `json:"categories"`
			Trades     map[string][]any `json:"trades"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.Date != "2024-03-15" || resp.PnL != 0 {
			t.Errorf("Unexpected defaults: %+v", resp)
		}
		if resp.Categories == nil || resp.Trades == nil {
			t.Errorf("Expected empty collections, got %+v", resp)
		}
	})

	t.Run("malformed date is a 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/day-detail?date=15-03-2024", testutil.MakeID(), nil)
		w := httptest.NewRecorder()

		handler.DayDetail(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestJournalHandler_KPIs tests the KPI endpoint.
func TestJournalHandler_KPIs(t *testing.T) {
	t.Run("empty month yields default KPIs", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/kpis?month=2024-03", testutil.MakeID(), nil)
		w := httptest.NewRecorder()

		handler.KPIs(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			NetPnL       float64 `json:"netPnL"`
			WinRate      float64 `json:"winRate"`
			Grade        string  `json:"grade"`
			ProfitFactor float64 `json:"profitFactor"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.Grade != "C" || resp.NetPnL != 0 || resp.WinRate != 0 || resp.ProfitFactor != 0 {
			t.Errorf("Unexpected default KPIs: %+v", resp)
		}
	})

	t.Run("winning month", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)
		userID := testutil.MakeID()

		testutil.CreateDayStat(t, db, userID, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 100, 200, nil)
		testutil.CreateDayStat(t, db, userID, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), 50, 100, nil)

		req := testutil.NewAuthedRequest(http.MethodGet, "/api/journal/kpis?month=2024-03", userID, nil)
		w := httptest.NewRecorder()

		handler.KPIs(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp struct {
			NetPnL       float64 `json:"netPnL"`
			WinRate      float64 `json:"winRate"`
			Grade        string  `json:"grade"`
			ProfitFactor float64 `json:"profitFactor"`
		}
		testutil.DecodeJSON(t, w, &resp)
		if resp.NetPnL != 150 || resp.WinRate != 100 || resp.Grade != "A+" || resp.ProfitFactor != 99 {
			t.Errorf("Unexpected KPIs: %+v", resp)
		}
	})
}

// TestJournalHandler_StampResolution tests the manual resolution endpoint.
func TestJournalHandler_StampResolution(t *testing.T) {
	t.Run("stamps and resolves the market", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)
		userID := testutil.MakeID()

		fill := testutil.NewFill(userID).WithMarket("m1", "Some Market").Buy().WithPrice(0.4).WithQuantity(10).Build(t, db)
		testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(fill.ID).Build(t, db)

		req := testutil.NewAuthedJSONRequest(t, http.MethodPost, "/api/journal/resolutions", userID,
			map[string]any{"market_id": "m1", "resolution_price": 1})
		w := httptest.NewRecorder()

		handler.StampResolution(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp map[string]int64
		testutil.DecodeJSON(t, w, &resp)
		if resp["stamped"] != 1 {
			t.Errorf("Expected stamped 1, got %v", resp)
		}
	})

	t.Run("missing resolution price is a 400", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		handler := handlers.NewJournalHandler(
			testutil.NewTestJournalService(t, db),
			testutil.NewTestResolutionService(t, db, nil),
		)

		req := testutil.NewAuthedJSONRequest(t, http.MethodPost, "/api/journal/resolutions", testutil.MakeID(),
			map[string]any{"market_id": "m1"})
		w := httptest.NewRecorder()

		handler.StampResolution(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

// TestJournalHandler_UpdateResolutions tests the bulk re-resolution endpoint.
func TestJournalHandler_UpdateResolutions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := handlers.NewJournalHandler(
		testutil.NewTestJournalService(t, db),
		testutil.NewTestResolutionService(t, db, nil),
	)
	userID := testutil.MakeID()

	fill := testutil.NewFill(userID).Buy().WithPrice(0.4).WithQuantity(10).Resolved(1).Build(t, db)
	testutil.NewTrade(userID).Buy(0.4).WithQuantity(10).WithSourceFill(fill.ID).Build(t, db)

	req := testutil.NewAuthedRequest(http.MethodPost, "/api/journal/update-resolutions", userID, nil)
	w := httptest.NewRecorder()

	handler.UpdateResolutions(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]int
	testutil.DecodeJSON(t, w, &resp)
	if resp["updated"] != 1 {
		t.Errorf("Expected updated 1, got %v", resp)
	}
}
