package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
)

// NoteRepository provides data access methods for the trade_note table.
type NoteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository with the provided database connection.
func NewNoteRepository(db *sql.DB) *NoteRepository {
	return &NoteRepository{db: db}
}

// GetNote retrieves the annotation for one (user, trade). A missing note is
// not an error; ok reports whether a row was found.
func (r *NoteRepository) GetNote(userID, tradeID string) (model.TradeNote, bool, error) {
	query := `
		SELECT notes, screenshots, ai_analysis, updated_at
		FROM trade_note
		WHERE user_id = ?
		AND trade_id = ?
	`

	var n model.TradeNote
	var screenshotsStr, updatedAtStr string
	var aiAnalysis sql.NullString

	err := r.db.QueryRow(query, userID, tradeID).Scan(
		&n.Notes,
		&screenshotsStr,
		&aiAnalysis,
		&updatedAtStr,
	)
	if err == sql.ErrNoRows {
		return model.TradeNote{}, false, nil
	}
	if err != nil {
		return model.TradeNote{}, false, fmt.Errorf("failed to scan trade_note results: %w", err)
	}

	n.UserID = userID
	n.TradeID = tradeID
	if aiAnalysis.Valid {
		n.AIAnalysis = &aiAnalysis.String
	}

	n.Screenshots = []string{}
	if err := json.Unmarshal([]byte(screenshotsStr), &n.Screenshots); err != nil {
		return model.TradeNote{}, false, fmt.Errorf("failed to decode screenshots: %w", err)
	}

	n.UpdatedAt, err = ParseTime(updatedAtStr)
	if err != nil {
		return model.TradeNote{}, false, err
	}

	return n, true, nil
}

// UpsertNote writes the annotation for one (user, trade), overwriting any
// existing row. The ai_analysis blob is preserved across note edits; it has
// its own lifecycle.
func (r *NoteRepository) UpsertNote(ctx context.Context, note model.TradeNote) error {
	screenshots, err := json.Marshal(note.Screenshots)
	if err != nil {
		return fmt.Errorf("failed to encode screenshots: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO trade_note (user_id, trade_id, notes, screenshots, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, trade_id) DO UPDATE SET
			notes = excluded.notes,
			screenshots = excluded.screenshots,
			updated_at = excluded.updated_at
	`,
		note.UserID,
		note.TradeID,
		note.Notes,
		string(screenshots),
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert trade_note: %w", err)
	}

	return nil
}
