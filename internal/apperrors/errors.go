package apperrors

import "errors"

// Domain entity errors represent missing or invalid entities in the system.
// These errors indicate that a requested resource does not exist.
var (
	// ErrTradeNotFound indicates that a trade with the given ID does not exist.
	ErrTradeNotFound = errors.New("trade not found")

	// ErrFillNotFound indicates that a fill with the given ID does not exist.
	ErrFillNotFound = errors.New("fill not found")

	// ErrWalletNotLinked indicates the user has no linked Polymarket wallet.
	ErrWalletNotLinked = errors.New("no linked wallet")
)

// Input errors represent malformed uploads or payloads. They are surfaced to
// the caller with enough detail to fix the input and are never retried.
var (
	// ErrInvalidCSVHeaders indicates required columns are missing from an upload.
	ErrInvalidCSVHeaders = errors.New("invalid CSV headers")

	// ErrEmptyFile indicates an upload contained no data at all.
	ErrEmptyFile = errors.New("empty file")

	// ErrNoValidRows indicates every data row in an upload failed validation.
	ErrNoValidRows = errors.New("no valid rows")

	// ErrInvalidFill indicates a sync payload carried a malformed fill.
	ErrInvalidFill = errors.New("invalid fill")

	// ErrInvalidUUID indicates that a provided ID is not a valid UUID format.
	ErrInvalidUUID = errors.New("invalid UUID format")

	// ErrEmptyID indicates that a required ID parameter is empty or missing.
	ErrEmptyID = errors.New("ID cannot be empty")

	// Validation errors for required parameters
	ErrInvalidMonth    = errors.New("month parameter is required (YYYY-MM)")
	ErrInvalidDate     = errors.New("date parameter is required (YYYY-MM-DD)")
	ErrInvalidTradeID  = errors.New("trade ID is required")
	ErrInvalidMarketID = errors.New("market ID is required")
	ErrInvalidWallet   = errors.New("wallet address is required")
)

// Operation failure errors represent system-level failures when retrieving
// or processing data.
var (
	ErrFailedToImportFills       = errors.New("failed to import fills")
	ErrFailedToImportTrades      = errors.New("failed to import trades")
	ErrFailedToSyncFills         = errors.New("failed to sync fills")
	ErrFailedToRetrieveDayStats  = errors.New("failed to retrieve day stats")
	ErrFailedToRetrieveDayDetail = errors.New("failed to retrieve day detail")
	ErrFailedToRetrieveNote      = errors.New("failed to retrieve trade note")
	ErrFailedToSaveNote          = errors.New("failed to save trade note")
	ErrFailedToRetrieveSettings  = errors.New("failed to retrieve settings")
	ErrFailedToSaveSettings      = errors.New("failed to save settings")
	ErrFailedToUpdateResolutions = errors.New("failed to update resolutions")
	ErrFailedToStampResolution   = errors.New("failed to stamp resolution price")
)
