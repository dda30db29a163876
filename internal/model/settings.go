package model

import "time"

// UserSettings holds per-user journal configuration. The linked Polymarket
// wallet is stored encrypted at rest; Wallet carries the decrypted value in
// memory only.
type UserSettings struct {
	UserID    string    `json:"-"`
	Wallet    string    `json:"wallet"`
	UpdatedAt time.Time `json:"-"`
}
