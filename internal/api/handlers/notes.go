package handlers

import (
	"errors"
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/request"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/validation"
)

// NoteHandler handles HTTP requests for per-trade journal notes.
type NoteHandler struct {
	noteService *service.NoteService
}

// NewNoteHandler creates a new NoteHandler with the provided note service.
func NewNoteHandler(noteService *service.NoteService) *NoteHandler {
	return &NoteHandler{noteService: noteService}
}

// GetNote handles GET requests for the note attached to one trade. A trade
// with no saved note returns an empty note, not an error.
//
// Endpoint: GET /api/journal/trade-notes?trade_id=...
// Response: 200 OK with TradeNote
// Error: 400 Bad Request on a missing or malformed trade_id
// Error: 500 Internal Server Error if retrieval fails
func (h *NoteHandler) GetNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	tradeID := r.URL.Query().Get("trade_id")
	if err := validation.ValidateUUID(tradeID); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidTradeID.Error(), nil)
		return
	}

	note, err := h.noteService.GetNote(userID, tradeID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveNote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, note)
}

// UpsertNote handles POST requests creating or replacing the note on a trade.
//
// Endpoint: POST /api/journal/trade-notes
// Request Body: {"trade_id": ..., "notes": ..., "screenshots": [...]}
// Response: 200 OK with {"message": "note saved"}
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the trade does not exist
// Error: 500 Internal Server Error if the save fails
func (h *NoteHandler) UpsertNote(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.UpsertTradeNoteRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpsertTradeNote(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	if err := h.noteService.UpsertNote(r.Context(), userID, req.TradeID, req.Notes, req.Screenshots); err != nil {
		if errors.Is(err, apperrors.ErrTradeNotFound) {
			response.RespondError(w, http.StatusNotFound, apperrors.ErrTradeNotFound.Error(), nil)
			return
		}
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToSaveNote.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]string{"message": "note saved"})
}
