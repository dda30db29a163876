package validation

import (
	"math"
	"strings"
	"time"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/api/request"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
)

// ValidateMonth parses a YYYY-MM month parameter.
func ValidateMonth(month string) (time.Time, error) {
	if strings.TrimSpace(month) == "" {
		return time.Time{}, apperrors.ErrInvalidMonth
	}
	t, err := time.Parse("2006-01", month)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidMonth
	}
	return t.UTC(), nil
}

// ValidateDate parses a YYYY-MM-DD date parameter.
func ValidateDate(date string) (time.Time, error) {
	if strings.TrimSpace(date) == "" {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return time.Time{}, apperrors.ErrInvalidDate
	}
	return t.UTC(), nil
}

// ValidateUpsertTradeNote validates a trade note upsert request.
func ValidateUpsertTradeNote(req request.UpsertTradeNoteRequest) error {
	if strings.TrimSpace(req.TradeID) == "" {
		return apperrors.ErrInvalidTradeID
	}
	return ValidateUUID(req.TradeID)
}

// ValidateStampResolution validates a resolution stamp request. The price
// must be present and finite; prediction markets settle in [0, 1] but the
// bound is not enforced here.
func ValidateStampResolution(req request.StampResolutionRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.MarketID) == "" {
		errors["market_id"] = "market_id is required"
	}

	if req.ResolutionPrice == nil {
		errors["resolution_price"] = "resolution_price is required"
	} else if math.IsNaN(*req.ResolutionPrice) || math.IsInf(*req.ResolutionPrice, 0) {
		errors["resolution_price"] = "resolution_price must be finite"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
