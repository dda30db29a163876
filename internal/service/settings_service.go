package service

import (
	"context"
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
)

// SettingsService handles per-user journal settings. The linked Polymarket
// wallet is fernet-encrypted before it reaches the store and decrypted on
// the way out.
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	key          *fernet.Key
}

// NewSettingsService creates a new SettingsService. fernetKey must be a
// base64-encoded 32-byte fernet key.
func NewSettingsService(settingsRepo *repository.SettingsRepository, fernetKey string) (*SettingsService, error) {
	key, err := fernet.DecodeKey(fernetKey)
	if err != nil {
		return nil, fmt.Errorf("invalid fernet key: %w", err)
	}
	return &SettingsService{
		settingsRepo: settingsRepo,
		key:          key,
	}, nil
}

// GetSettings retrieves the user's settings with the wallet decrypted.
// A user with no settings row gets an empty wallet.
func (s *SettingsService) GetSettings(userID string) (model.UserSettings, error) {
	encrypted, err := s.settingsRepo.GetWallet(userID)
	if err != nil {
		return model.UserSettings{}, err
	}

	settings := model.UserSettings{UserID: userID}
	if encrypted == "" {
		return settings, nil
	}

	// TTL 0: wallet tokens do not expire.
	plaintext := fernet.VerifyAndDecrypt([]byte(encrypted), 0, []*fernet.Key{s.key})
	if plaintext == nil {
		return model.UserSettings{}, fmt.Errorf("failed to decrypt stored wallet")
	}
	settings.Wallet = string(plaintext)
	return settings, nil
}

// LinkWallet stores the user's Polymarket wallet address, encrypted at rest.
func (s *SettingsService) LinkWallet(ctx context.Context, userID, wallet string) error {
	token, err := fernet.EncryptAndSign([]byte(wallet), s.key)
	if err != nil {
		return fmt.Errorf("failed to encrypt wallet: %w", err)
	}
	return s.settingsRepo.UpsertWallet(ctx, userID, string(token))
}

// RequireWallet returns the user's linked wallet or ErrWalletNotLinked.
// The sync endpoint refuses to ingest fills for users without one.
func (s *SettingsService) RequireWallet(userID string) (string, error) {
	settings, err := s.GetSettings(userID)
	if err != nil {
		return "", err
	}
	if settings.Wallet == "" {
		return "", apperrors.ErrWalletNotLinked
	}
	return settings.Wallet, nil
}
