package handlers

import (
	"errors"
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

// ImportHandler handles HTTP requests for the CSV import endpoints.
// It parses uploads and delegates ingestion to the ImportService.
type ImportHandler struct {
	importService *service.ImportService
}

// NewImportHandler creates a new ImportHandler with the provided service dependency.
func NewImportHandler(importService *service.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: importService,
	}
}

// ImportFills handles POST requests to import a Polymarket fill export.
// Expects multipart/form-data with a "file" field (CSV, shape
// fill_id,market_id,market_title,side,price,quantity,fee,timestamp,tx_hash)
// and a "wallet" field naming the source wallet.
//
// Endpoint: POST /api/journal/import/polymarket
// Response: 200 OK with ImportResult (imported count + per-row errors)
// Error: 400 Bad Request on missing columns, empty file, or no valid rows
// Error: 500 Internal Server Error if persistence fails
func (h *ImportHandler) ImportFills(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	text, err := readUploadedFile(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "no file uploaded", err.Error())
		return
	}
	wallet := r.FormValue("wallet")
	if wallet == "" {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidWallet.Error(), nil)
		return
	}

	result, err := h.importService.ImportFillsCSV(r.Context(), userID, wallet, text)
	if err != nil {
		respondImportError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// ImportTrades handles POST requests to import a trade export with explicit
// categories. Expects multipart/form-data with a "file" field (CSV, shape
// market_id,title,category,side,price,quantity,fee,executed_at,tx_id).
//
// Endpoint: POST /api/import/csv
// Response: 200 OK with TradeImportResult (imported/skipped/total + errors)
// Error: 400 Bad Request on missing columns, empty file, or no valid rows
// Error: 500 Internal Server Error if persistence fails
func (h *ImportHandler) ImportTrades(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	text, err := readUploadedFile(r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "no file uploaded", err.Error())
		return
	}

	result, err := h.importService.ImportTradesCSV(r.Context(), userID, text)
	if err != nil {
		respondImportError(w, err)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// respondImportError maps ingestion failures onto the error taxonomy:
// input problems are 400s with enough detail to fix the upload, anything
// else is a persistence failure.
func respondImportError(w http.ResponseWriter, err error) {
	var headerErr *polymarket.HeaderError
	if errors.As(err, &headerErr) {
		response.RespondError(w, http.StatusBadRequest,
			apperrors.ErrInvalidCSVHeaders.Error(),
			map[string]any{"missing": headerErr.Missing})
		return
	}
	if errors.Is(err, apperrors.ErrNoValidRows) {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrNoValidRows.Error(), nil)
		return
	}
	response.RespondError(w, http.StatusInternalServerError,
		apperrors.ErrFailedToImportFills.Error(), err.Error())
}
