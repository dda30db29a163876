package handlers

import (
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/request"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/validation"
)

// SettingsHandler handles HTTP requests for per-user settings.
type SettingsHandler struct {
	settingsService *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the provided settings service.
func NewSettingsHandler(settingsService *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService}
}

// GetSettings handles GET requests for the caller's settings. A user with no
// linked wallet gets an empty wallet field.
//
// Endpoint: GET /api/settings
// Response: 200 OK with UserSettings
// Error: 500 Internal Server Error if retrieval fails
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	settings, err := h.settingsService.GetSettings(userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, settings)
}

// LinkWallet handles PUT requests linking a Polymarket wallet address to the
// caller's account.
//
// Endpoint: PUT /api/settings/wallet
// Request Body: {"wallet": "0x..."}
// Response: 200 OK with {"message": "wallet linked"}
// Error: 400 Bad Request if the address is malformed
// Error: 500 Internal Server Error if the save fails
func (h *SettingsHandler) LinkWallet(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.LinkWalletRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateLinkWallet(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidWallet.Error(), err.Error())
		return
	}

	if err := h.settingsService.LinkWallet(r.Context(), userID, req.Wallet); err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToSaveSettings.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"message": "wallet linked"})
}
