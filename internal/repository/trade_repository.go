package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
)

// TradeRepository provides data access methods for the journal_trade table.
// Trades are keyed on (user_id, source_fill_id) for upserts, which is what
// makes repeated imports of the same file idempotent.
type TradeRepository struct {
	db *sql.DB
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// UpsertTrades writes the given canonical trades, overwriting any row with
// the same (user, source fill id). The surrogate id of an existing row is
// preserved so trade notes keep pointing at the same trade.
func (r *TradeRepository) UpsertTrades(ctx context.Context, trades []model.Trade) error {
	if len(trades) == 0 {
		return nil
	}

	query := `
		INSERT INTO journal_trade
			(id, user_id, date, market_id, market_title, category, side, entry,
			 exit, fee, pnl, outcome, volume, quantity, source_fill_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, source_fill_id) DO UPDATE SET
			date = excluded.date,
			market_id = excluded.market_id,
			market_title = excluded.market_title,
			category = excluded.category,
			side = excluded.side,
			entry = excluded.entry,
			exit = excluded.exit,
			fee = excluded.fee,
			pnl = excluded.pnl,
			outcome = excluded.outcome,
			volume = excluded.volume,
			quantity = excluded.quantity
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare trade upsert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trades {
		_, err := stmt.ExecContext(ctx,
			t.ID,
			t.UserID,
			t.Date.UTC().Format("2006-01-02"),
			t.MarketID,
			t.MarketTitle,
			string(t.Category),
			string(t.Side),
			nullableFloat(t.Entry),
			nullableFloat(t.Exit),
			t.Fee,
			t.PnL,
			string(t.Outcome),
			t.Volume,
			t.Quantity,
			t.SourceFillID,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert trade for fill %s: %w", t.SourceFillID, err)
		}
	}

	return nil
}

// UpdateResolution writes the resolution-based pnl and outcome onto the
// trade derived from the given fill. It touches nothing else, so re-running
// the resolution pass with the same settlement price is idempotent.
func (r *TradeRepository) UpdateResolution(ctx context.Context, userID, sourceFillID string, pnl float64, outcome model.Outcome) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE journal_trade
		SET pnl = ?, outcome = ?
		WHERE user_id = ?
		AND source_fill_id = ?
	`, pnl, string(outcome), userID, sourceFillID)
	if err != nil {
		return fmt.Errorf("failed to update trade resolution: %w", err)
	}
	return nil
}

// GetTrades retrieves all of the user's trades ordered by date. An empty
// result is a valid state, not an error.
func (r *TradeRepository) GetTrades(userID string) ([]model.Trade, error) {
	query := tradeSelect + `
		WHERE user_id = ?
		ORDER BY date ASC, created_at ASC
	`
	return r.queryTrades(query, userID)
}

// GetTradesByDate retrieves the user's trades executed on one UTC calendar date.
func (r *TradeRepository) GetTradesByDate(userID string, date time.Time) ([]model.Trade, error) {
	query := tradeSelect + `
		WHERE user_id = ?
		AND date = ?
		ORDER BY created_at ASC
	`
	return r.queryTrades(query, userID, date.UTC().Format("2006-01-02"))
}

// GetTrade retrieves a single trade by its surrogate id, scoped to the user.
func (r *TradeRepository) GetTrade(userID, tradeID string) (model.Trade, error) {
	query := tradeSelect + `
		WHERE user_id = ?
		AND id = ?
	`
	trades, err := r.queryTrades(query, userID, tradeID)
	if err != nil {
		return model.Trade{}, err
	}
	if len(trades) == 0 {
		return model.Trade{}, sql.ErrNoRows
	}
	return trades[0], nil
}

const tradeSelect = `
	SELECT id, user_id, date, market_id, market_title, category, side, entry,
	       exit, fee, pnl, outcome, volume, quantity, source_fill_id, created_at
	FROM journal_trade
`

func (r *TradeRepository) queryTrades(query string, args ...any) ([]model.Trade, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal_trade: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		var t model.Trade
		var dateStr, createdAtStr, categoryStr, sideStr, outcomeStr string
		var entry, exit sql.NullFloat64

		err := rows.Scan(
			&t.ID,
			&t.UserID,
			&dateStr,
			&t.MarketID,
			&t.MarketTitle,
			&categoryStr,
			&sideStr,
			&entry,
			&exit,
			&t.Fee,
			&t.PnL,
			&outcomeStr,
			&t.Volume,
			&t.Quantity,
			&t.SourceFillID,
			&createdAtStr,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal_trade results: %w", err)
		}

		t.Category = model.Category(categoryStr)
		t.Side = model.Side(sideStr)
		t.Outcome = model.Outcome(outcomeStr)
		if entry.Valid {
			v := entry.Float64
			t.Entry = &v
		}
		if exit.Valid {
			v := exit.Float64
			t.Exit = &v
		}

		t.Date, err = ParseTime(dateStr)
		if err != nil {
			return nil, err
		}
		t.CreatedAt, err = ParseTime(createdAtStr)
		if err != nil {
			return nil, err
		}

		trades = append(trades, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating journal_trade: %w", err)
	}

	return trades, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}
