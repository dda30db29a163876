package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
)

// DayStatRepository provides data access methods for the day_stat table,
// the derived per-(user, date) aggregate over canonical trades.
type DayStatRepository struct {
	db *sql.DB
}

// NewDayStatRepository creates a new DayStatRepository with the provided database connection.
func NewDayStatRepository(db *sql.DB) *DayStatRepository {
	return &DayStatRepository{db: db}
}

// UpsertDayStats writes the given aggregates, overwriting rows that share a
// (user_id, date) key.
func (r *DayStatRepository) UpsertDayStats(ctx context.Context, stats []model.DayStat) error {
	if len(stats) == 0 {
		return nil
	}

	query := `
		INSERT INTO day_stat (user_id, date, pnl, volume, categories, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, date) DO UPDATE SET
			pnl = excluded.pnl,
			volume = excluded.volume,
			categories = excluded.categories,
			updated_at = excluded.updated_at
	`

	stmt, err := r.db.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare day_stat upsert: %w", err)
	}
	defer stmt.Close()

	for _, s := range stats {
		categories, err := json.Marshal(s.Categories)
		if err != nil {
			return fmt.Errorf("failed to encode categories: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			s.UserID,
			s.DateString(),
			s.PnL,
			s.Volume,
			string(categories),
			time.Now().UTC().Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert day_stat for %s: %w", s.DateString(), err)
		}
	}

	return nil
}

// DeleteDayStats removes every aggregate for the user. Used before a full
// recompute so dates whose trades disappeared do not leave stale rows.
func (r *DayStatRepository) DeleteDayStats(ctx context.Context, userID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM day_stat WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to delete day_stat rows: %w", err)
	}
	return nil
}

// GetDayStatsRange retrieves the user's aggregates between two dates
// (inclusive), ordered by date.
func (r *DayStatRepository) GetDayStatsRange(userID string, startDate, endDate time.Time) ([]model.DayStat, error) {
	query := `
		SELECT user_id, date, pnl, volume, categories, updated_at
		FROM day_stat
		WHERE user_id = ?
		AND date >= ?
		AND date <= ?
		ORDER BY date ASC
	`

	rows, err := r.db.Query(query, userID,
		startDate.UTC().Format("2006-01-02"),
		endDate.UTC().Format("2006-01-02"))
	if err != nil {
		return nil, fmt.Errorf("failed to query day_stat: %w", err)
	}
	defer rows.Close()

	stats := []model.DayStat{}
	for rows.Next() {
		stat, err := scanDayStat(rows)
		if err != nil {
			return nil, err
		}
		stats = append(stats, stat)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating day_stat: %w", err)
	}

	return stats, nil
}

// GetDayStat retrieves the aggregate for one (user, date). A missing row is
// not an error; ok reports whether a row was found.
func (r *DayStatRepository) GetDayStat(userID string, date time.Time) (model.DayStat, bool, error) {
	query := `
		SELECT user_id, date, pnl, volume, categories, updated_at
		FROM day_stat
		WHERE user_id = ?
		AND date = ?
	`

	rows, err := r.db.Query(query, userID, date.UTC().Format("2006-01-02"))
	if err != nil {
		return model.DayStat{}, false, fmt.Errorf("failed to query day_stat: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return model.DayStat{}, false, fmt.Errorf("error iterating day_stat: %w", err)
		}
		return model.DayStat{}, false, nil
	}

	stat, err := scanDayStat(rows)
	if err != nil {
		return model.DayStat{}, false, err
	}
	return stat, true, nil
}

func scanDayStat(rows *sql.Rows) (model.DayStat, error) {
	var s model.DayStat
	var dateStr, categoriesStr, updatedAtStr string

	err := rows.Scan(&s.UserID, &dateStr, &s.PnL, &s.Volume, &categoriesStr, &updatedAtStr)
	if err != nil {
		return model.DayStat{}, fmt.Errorf("failed to scan day_stat results: %w", err)
	}

	s.Date, err = ParseTime(dateStr)
	if err != nil {
		return model.DayStat{}, err
	}
	s.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.DayStat{}, err
	}

	s.Categories = []model.Category{}
	if err := json.Unmarshal([]byte(categoriesStr), &s.Categories); err != nil {
		return model.DayStat{}, fmt.Errorf("failed to decode categories: %w", err)
	}

	return s, nil
}
