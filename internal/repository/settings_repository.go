package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// SettingsRepository provides data access methods for the user_settings
// table. Wallet values pass through this layer already encrypted; the
// repository never sees plaintext addresses.
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new SettingsRepository with the provided database connection.
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetWallet retrieves the user's encrypted wallet token. Returns "" (no
// error) when the user has no settings row or no linked wallet.
func (r *SettingsRepository) GetWallet(userID string) (string, error) {
	var wallet sql.NullString
	err := r.db.QueryRow(`
		SELECT polymarket_wallet
		FROM user_settings
		WHERE user_id = ?
	`, userID).Scan(&wallet)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to scan user_settings results: %w", err)
	}
	if !wallet.Valid {
		return "", nil
	}
	return wallet.String, nil
}

// UpsertWallet writes the user's encrypted wallet token, keyed on user id.
func (r *SettingsRepository) UpsertWallet(ctx context.Context, userID, encryptedWallet string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_settings (user_id, polymarket_wallet, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			polymarket_wallet = excluded.polymarket_wallet,
			updated_at = excluded.updated_at
	`, userID, encryptedWallet, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to upsert user_settings: %w", err)
	}
	return nil
}
