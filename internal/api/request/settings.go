package request

// LinkWalletRequest is the body of PUT /api/settings/wallet.
type LinkWalletRequest struct {
	Wallet string `json:"wallet"`
}
