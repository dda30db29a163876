package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
)

// FillBuilder provides a fluent interface for creating test fills.
//
// Example usage:
//
//	fill := testutil.NewFill("user-1").
//	    WithMarket("mkt-1", "Bitcoin above $70k").
//	    Sell().
//	    WithPrice(0.7).
//	    Build(t, db)
type FillBuilder struct {
	ID          string
	UserID      string
	Wallet      string
	MarketID    string
	MarketTitle string
	Side        model.Side
	Price       float64
	Quantity    float64
	Fee         float64
	Timestamp   time.Time
	TxHash      string
	Resolution  *float64
}

// NewFill creates a FillBuilder with sensible defaults.
func NewFill(userID string) *FillBuilder {
	return &FillBuilder{
		ID:          MakeID(),
		UserID:      userID,
		MarketID:    "market-" + MakeID()[:8],
		MarketTitle: "Test Market",
		Side:        model.SideBuy,
		Price:       0.5,
		Quantity:    100,
		Fee:         1,
		Timestamp:   time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC),
	}
}

// WithID sets a custom fill ID.
func (b *FillBuilder) WithID(id string) *FillBuilder {
	b.ID = id
	return b
}

// WithMarket sets the market ID and title.
func (b *FillBuilder) WithMarket(marketID, title string) *FillBuilder {
	b.MarketID = marketID
	b.MarketTitle = title
	return b
}

// Buy marks the fill as a buy.
func (b *FillBuilder) Buy() *FillBuilder {
	b.Side = model.SideBuy
	return b
}

// Sell marks the fill as a sell.
func (b *FillBuilder) Sell() *FillBuilder {
	b.Side = model.SideSell
	return b
}

// WithPrice sets the execution price.
func (b *FillBuilder) WithPrice(price float64) *FillBuilder {
	b.Price = price
	return b
}

// WithQuantity sets the filled quantity.
func (b *FillBuilder) WithQuantity(qty float64) *FillBuilder {
	b.Quantity = qty
	return b
}

// WithFee sets the fee.
func (b *FillBuilder) WithFee(fee float64) *FillBuilder {
	b.Fee = fee
	return b
}

// WithTimestamp sets the execution time.
func (b *FillBuilder) WithTimestamp(ts time.Time) *FillBuilder {
	b.Timestamp = ts
	return b
}

// Resolved stamps a settlement price on the fill.
func (b *FillBuilder) Resolved(price float64) *FillBuilder {
	b.Resolution = &price
	return b
}

// Build creates the fill in the database and returns it.
func (b *FillBuilder) Build(t *testing.T, db *sql.DB) model.Fill {
	t.Helper()

	query := `
		INSERT INTO polymarket_fill
			(id, user_id, wallet, market_id, market_title, side, price, quantity, fee, timestamp, tx_hash, resolution_price, raw_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Wallet, b.MarketID, b.MarketTitle, string(b.Side),
		b.Price, b.Quantity, b.Fee, b.Timestamp.UTC().Format(time.RFC3339),
		b.TxHash, b.Resolution, "{}")
	if err != nil {
		t.Fatalf("Failed to create test fill: %v", err)
	}

	return model.Fill{
		ID:              b.ID,
		UserID:          b.UserID,
		Wallet:          b.Wallet,
		MarketID:        b.MarketID,
		MarketTitle:     b.MarketTitle,
		Side:            b.Side,
		Price:           b.Price,
		Quantity:        b.Quantity,
		Fee:             b.Fee,
		Timestamp:       b.Timestamp.UTC(),
		TxHash:          b.TxHash,
		ResolutionPrice: b.Resolution,
	}
}

// TradeBuilder provides a fluent interface for creating test trades.
type TradeBuilder struct {
	ID           string
	UserID       string
	Date         time.Time
	MarketID     string
	MarketTitle  string
	Category     model.Category
	Side         model.Side
	Entry        *float64
	Exit         *float64
	Fee          float64
	PnL          float64
	Outcome      model.Outcome
	Quantity     float64
	SourceFillID string
}

// NewTrade creates a TradeBuilder with sensible defaults: a buy of 100
// shares at 0.5 on 2024-03-15.
func NewTrade(userID string) *TradeBuilder {
	entry := 0.5
	return &TradeBuilder{
		ID:           MakeID(),
		UserID:       userID,
		Date:         time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		MarketID:     "market-" + MakeID()[:8],
		MarketTitle:  "Test Market",
		Category:     model.CategoryScience,
		Side:         model.SideBuy,
		Entry:        &entry,
		Fee:          1,
		Outcome:      model.OutcomeOpen,
		Quantity:     100,
		SourceFillID: MakeID(),
	}
}

// WithDate sets the trade's UTC calendar date.
func (b *TradeBuilder) WithDate(date time.Time) *TradeBuilder {
	b.Date = date
	return b
}

// WithMarket sets the market ID and title.
func (b *TradeBuilder) WithMarket(marketID, title string) *TradeBuilder {
	b.MarketID = marketID
	b.MarketTitle = title
	return b
}

// WithCategory sets the category.
func (b *TradeBuilder) WithCategory(c model.Category) *TradeBuilder {
	b.Category = c
	return b
}

// Buy marks the trade as a buy at the given entry price.
func (b *TradeBuilder) Buy(entry float64) *TradeBuilder {
	b.Side = model.SideBuy
	b.Entry = &entry
	b.Exit = nil
	return b
}

// Sell marks the trade as a sell at the given exit price.
func (b *TradeBuilder) Sell(exit float64) *TradeBuilder {
	b.Side = model.SideSell
	b.Exit = &exit
	b.Entry = nil
	return b
}

// WithQuantity sets the quantity.
func (b *TradeBuilder) WithQuantity(qty float64) *TradeBuilder {
	b.Quantity = qty
	return b
}

// WithFee sets the fee.
func (b *TradeBuilder) WithFee(fee float64) *TradeBuilder {
	b.Fee = fee
	return b
}

// WithSourceFill ties the trade to a source fill ID.
func (b *TradeBuilder) WithSourceFill(fillID string) *TradeBuilder {
	b.SourceFillID = fillID
	return b
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	price := 0.0
	if b.Entry != nil {
		price = *b.Entry
	}
	if b.Exit != nil {
		price = *b.Exit
	}
	volume := price * b.Quantity
	if volume < 0 {
		volume = -volume
	}

	query := `
		INSERT INTO journal_trade
			(id, user_id, date, market_id, market_title, category, side, entry, exit, fee, pnl, outcome, volume, quantity, source_fill_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.UserID, b.Date.UTC().Format("2006-01-02"), b.MarketID, b.MarketTitle,
		string(b.Category), string(b.Side), b.Entry, b.Exit, b.Fee, b.PnL,
		string(b.Outcome), volume, b.Quantity, b.SourceFillID)
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return model.Trade{
		ID:           b.ID,
		UserID:       b.UserID,
		Date:         b.Date.UTC(),
		MarketID:     b.MarketID,
		MarketTitle:  b.MarketTitle,
		Category:     b.Category,
		Side:         b.Side,
		Entry:        b.Entry,
		Exit:         b.Exit,
		Fee:          b.Fee,
		PnL:          b.PnL,
		Outcome:      b.Outcome,
		Volume:       volume,
		Quantity:     b.Quantity,
		SourceFillID: b.SourceFillID,
	}
}

// CreateDayStat inserts a day stat row directly.
func CreateDayStat(t *testing.T, db *sql.DB, userID string, date time.Time, pnl, volume float64, categories []model.Category) model.DayStat {
	t.Helper()

	if categories == nil {
		categories = []model.Category{}
	}
	encoded, err := json.Marshal(categories)
	if err != nil {
		t.Fatalf("Failed to encode categories: %v", err)
	}

	query := `
		INSERT INTO day_stat (user_id, date, pnl, volume, categories)
		VALUES (?, ?, ?, ?, ?)
	`
	if _, err := db.Exec(query, userID, date.UTC().Format("2006-01-02"), pnl, volume, string(encoded)); err != nil {
		t.Fatalf("Failed to create test day stat: %v", err)
	}

	return model.DayStat{
		UserID:     userID,
		Date:       date.UTC(),
		PnL:        pnl,
		Volume:     volume,
		Categories: categories,
	}
}

// CreateNote inserts a trade note row directly.
func CreateNote(t *testing.T, db *sql.DB, userID, tradeID, notes string, screenshots []string) model.TradeNote {
	t.Helper()

	if screenshots == nil {
		screenshots = []string{}
	}
	encoded, err := json.Marshal(screenshots)
	if err != nil {
		t.Fatalf("Failed to encode screenshots: %v", err)
	}

	query := `
		INSERT INTO trade_note (user_id, trade_id, notes, screenshots)
		VALUES (?, ?, ?, ?)
	`
	if _, err := db.Exec(query, userID, tradeID, notes, string(encoded)); err != nil {
		t.Fatalf("Failed to create test note: %v", err)
	}

	return model.TradeNote{
		UserID:      userID,
		TradeID:     tradeID,
		Notes:       notes,
		Screenshots: screenshots,
	}
}
