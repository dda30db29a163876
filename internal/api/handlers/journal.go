package handlers

import (
	"net/http"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/request"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/response"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/validation"
)

// JournalHandler handles HTTP requests for the journal read side (calendar
// day stats, day drill-down, KPIs) and the resolution endpoints.
type JournalHandler struct {
	journalService    *service.JournalService
	resolutionService *service.ResolutionService
}

// NewJournalHandler creates a new JournalHandler with the provided service dependencies.
func NewJournalHandler(journalService *service.JournalService, resolutionService *service.ResolutionService) *JournalHandler {
	return &JournalHandler{
		journalService:    journalService,
		resolutionService: resolutionService,
	}
}

// DayStats handles GET requests for one month of calendar day summaries.
//
// Endpoint: GET /api/journal/day-stats?month=YYYY-MM
// Response: 200 OK with {"days": [DaySummary]}
// Error: 400 Bad Request on a missing or malformed month parameter
// Error: 500 Internal Server Error if retrieval fails
func (h *JournalHandler) DayStats(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	month := r.URL.Query().Get("month")
	if _, err := validation.ValidateMonth(month); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidMonth.Error(), nil)
		return
	}

	days, err := h.journalService.GetDaySummaries(userID, month)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveDayStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]any{"days": days})
}

// DayDetail handles GET requests for a single day's drill-down. A date with
// no data returns zero stats and an empty trade map, not an error.
//
// Endpoint: GET /api/journal/day-detail?date=YYYY-MM-DD
// Response: 200 OK with DayDetail
// Error: 400 Bad Request on a missing or malformed date parameter
// Error: 500 Internal Server Error if retrieval fails
func (h *JournalHandler) DayDetail(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	date, err := validation.ValidateDate(r.URL.Query().Get("date"))
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidDate.Error(), nil)
		return
	}

	detail, err := h.journalService.GetDayDetail(userID, date)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveDayDetail.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// KPIs handles GET requests for the KPI summary over one month.
//
// Endpoint: GET /api/journal/kpis?month=YYYY-MM
// Response: 200 OK with KPISummary
// Error: 400 Bad Request on a missing or malformed month parameter
// Error: 500 Internal Server Error if retrieval fails
func (h *JournalHandler) KPIs(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	month := r.URL.Query().Get("month")
	if _, err := validation.ValidateMonth(month); err != nil {
		response.RespondError(w, http.StatusBadRequest, apperrors.ErrInvalidMonth.Error(), nil)
		return
	}

	kpis, err := h.journalService.GetMonthKPIs(userID, month)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToRetrieveDayStats.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, kpis)
}

// UpdateResolutions handles POST requests to re-run the resolution pass
// over the caller's fills with known settlement prices.
//
// Endpoint: POST /api/journal/update-resolutions
// Response: 200 OK with {"updated": n}
// Error: 500 Internal Server Error if the pass fails
func (h *JournalHandler) UpdateResolutions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	updated, err := h.resolutionService.UpdateResolutions(r.Context(), userID)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToUpdateResolutions.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// StampResolution handles POST requests recording a settlement price for a
// market, then re-running the resolution pass.
//
// Endpoint: POST /api/journal/resolutions
// Request Body: {"market_id": ..., "resolution_price": ...}
// Response: 200 OK with {"stamped": n}
// Error: 400 Bad Request if validation fails
// Error: 500 Internal Server Error if the stamp or pass fails
func (h *JournalHandler) StampResolution(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.StampResolutionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateStampResolution(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	stamped, err := h.resolutionService.StampResolution(r.Context(), userID, req.MarketID, *req.ResolutionPrice)
	if err != nil {
		response.RespondError(w, http.StatusInternalServerError,
			apperrors.ErrFailedToStampResolution.Error(), err.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, map[string]int64{"stamped": stamped})
}
