package validation

import (
	"regexp"
	"strings"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/request"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
)

var walletPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// ValidateLinkWallet validates a wallet-linking request. Polymarket wallets
// are Ethereum addresses.
func ValidateLinkWallet(req request.LinkWalletRequest) error {
	if strings.TrimSpace(req.Wallet) == "" {
		return apperrors.ErrInvalidWallet
	}
	if !walletPattern.MatchString(req.Wallet) {
		return &Error{Fields: map[string]string{
			"wallet": "must be a 0x-prefixed 40-hex-digit address",
		}}
	}
	return nil
}
