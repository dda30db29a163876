package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
)

// FillRepository provides data access methods for the polymarket_fill table.
// Fills are the raw audit records behind canonical trades; re-importing a
// fill overwrites the existing row for the same (user, fill id).
type FillRepository struct {
	db *sql.DB
}

// NewFillRepository creates a new FillRepository with the provided database connection.
func NewFillRepository(db *sql.DB) *FillRepository {
	return &FillRepository{db: db}
}

// UpsertFills writes the given fills, overwriting rows that share a
// (user_id, id) key. The statement relies on SQLite's atomic
// insert-or-replace semantics so concurrent re-imports converge.
func (r *FillRepository) UpsertFills(ctx context.Context, fills []model.Fill) error {
	if len(fills) == 0 {
		return nil
	}

	query := `
		INSERT INTO polymarket_fill
			(id, user_id, wallet, market_id, market_title, side, price, quantity,
			 fee, timestamp, tx_hash, raw_json, imported_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, id) DO UPDATE SET
			wallet = excluded.wallet,
			market_id = excluded.market_id,
			market_title = excluded.market_title,
			side = excluded.side,
			price = excluded.price,
			quantity = excluded.quantity,
			fee = excluded.fee,
			timestamp = excluded.timestamp,
			tx_hash = excluded.tx_hash,
			raw_json = excluded.raw_json,
			imported_at = excluded.imported_at
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare fill upsert: %w", err)
	}
	defer stmt.Close()

	for _, f := range fills {
		_, err := stmt.ExecContext(ctx,
			f.ID,
			f.UserID,
			f.Wallet,
			f.MarketID,
			f.MarketTitle,
			string(f.Side),
			f.Price,
			f.Quantity,
			f.Fee,
			f.Timestamp.UTC().Format(time.RFC3339),
			f.TxHash,
			f.RawJSON,
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert fill %s: %w", f.ID, err)
		}
	}

	return nil
}

// GetResolvedFills retrieves the user's fills whose market resolution price
// is known. These are the inputs to the resolution pass.
func (r *FillRepository) GetResolvedFills(userID string) ([]model.Fill, error) {
	query := `
		SELECT id, user_id, market_id, market_title, side, price, quantity, fee,
		       timestamp, resolution_price
		FROM polymarket_fill
		WHERE user_id = ?
		AND resolution_price IS NOT NULL
		ORDER BY timestamp ASC
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polymarket_fill: %w", err)
	}
	defer rows.Close()

	var fills []model.Fill
	for rows.Next() {
		var f model.Fill
		var sideStr, timestampStr string
		var resolution sql.NullFloat64

		err := rows.Scan(
			&f.ID,
			&f.UserID,
			&f.MarketID,
			&f.MarketTitle,
			&sideStr,
			&f.Price,
			&f.Quantity,
			&f.Fee,
			&timestampStr,
			&resolution,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan polymarket_fill results: %w", err)
		}

		f.Side = model.Side(sideStr)
		f.Timestamp, err = ParseTime(timestampStr)
		if err != nil {
			return nil, err
		}
		if resolution.Valid {
			price := resolution.Float64
			f.ResolutionPrice = &price
		}

		fills = append(fills, f)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polymarket_fill: %w", err)
	}

	return fills, nil
}

// GetUnresolvedMarketIDs returns the distinct market ids among the user's
// fills that have no resolution price yet.
func (r *FillRepository) GetUnresolvedMarketIDs(userID string) ([]string, error) {
	query := `
		SELECT DISTINCT market_id
		FROM polymarket_fill
		WHERE user_id = ?
		AND resolution_price IS NULL
	`

	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query polymarket_fill: %w", err)
	}
	defer rows.Close()

	var marketIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan market id: %w", err)
		}
		marketIDs = append(marketIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polymarket_fill: %w", err)
	}

	return marketIDs, nil
}

// StampResolution records the settlement price on every fill the user holds
// in the given market. Returns the number of stamped fills. Stamping the
// same price twice is a no-op in effect.
func (r *FillRepository) StampResolution(ctx context.Context, userID, marketID string, price float64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE polymarket_fill
		SET resolution_price = ?
		WHERE user_id = ?
		AND market_id = ?
	`, price, userID, marketID)
	if err != nil {
		return 0, fmt.Errorf("failed to stamp resolution price: %w", err)
	}

	stamped, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count stamped fills: %w", err)
	}
	return stamped, nil
}

// GetUserIDs returns every user id present in the fill table. The scheduler
// uses this to fan out the periodic resolution and recompute passes.
func (r *FillRepository) GetUserIDs() ([]string, error) {
	rows, err := r.db.Query(`SELECT DISTINCT user_id FROM polymarket_fill`)
	if err != nil {
		return nil, fmt.Errorf("failed to query polymarket_fill: %w", err)
	}
	defer rows.Close()

	var userIDs []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan user id: %w", err)
		}
		userIDs = append(userIDs, id)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating polymarket_fill: %w", err)
	}

	return userIDs, nil
}
