package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

// SyncHandler handles HTTP requests for the stub sync endpoint.
type SyncHandler struct {
	importService   *service.ImportService
	settingsService *service.SettingsService
}

// NewSyncHandler creates a new SyncHandler with the provided service dependencies.
func NewSyncHandler(importService *service.ImportService, settingsService *service.SettingsService) *SyncHandler {
	return &SyncHandler{
		importService:   importService,
		settingsService: settingsService,
	}
}

// Sync handles POST requests pushing fills as JSON. The caller must have a
// linked wallet. A body without fills is acknowledged as a no-op.
//
// Endpoint: POST /api/sync/polymarket
// Request Body: {"fills": [{fill_id, market_id, market_title, side, price, quantity, fee?, timestamp, tx_hash?}]}
// Response: 200 OK with {"synced": n}, or {"message": ...} for the no-op case
// Error: 400 Bad Request if no wallet is linked or a fill is malformed
// Error: 500 Internal Server Error if persistence fails
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	wallet, err := h.settingsService.RequireWallet(userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrWalletNotLinked) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrWalletNotLinked.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveSettings.Error(), err.Error())
		return
	}

	// A missing or unparseable body counts as "no fills provided".
	var payload polymarket.SyncPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		payload = polymarket.SyncPayload{}
	}

	if len(payload.Fills) == 0 {
		response.RespondJSON(w, http.StatusOK, map[string]string{
			"message": "no fills provided",
		})
		return
	}

	synced, err := h.importService.SyncFills(r.Context(), userID, wallet, payload)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidFill) {
			response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidFill.Error(), err.Error())
			return
		}
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToSyncFills.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"synced": synced})
}
