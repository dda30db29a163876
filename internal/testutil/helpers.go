package testutil

import (
	"database/sql"
	"testing"

	"github.com/fernet/fernet-go"
	"github.com/google/uuid"

	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/service"
)

// MakeID returns a fresh UUID string.
func MakeID() string {
	return uuid.NewString()
}

// MakeFernetKey generates a throwaway fernet key for settings tests.
func MakeFernetKey(t *testing.T) string {
	t.Helper()

	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("Failed to generate fernet key: %v", err)
	}
	return key.Encode()
}

func NewTestJournalService(t *testing.T, db *sql.DB) *service.JournalService {
	t.Helper()

	tradeRepo := repository.NewTradeRepository(db)
	dayStatRepo := repository.NewDayStatRepository(db)

	return service.NewJournalService(
		tradeRepo,
		dayStatRepo,
	)
}

func NewTestImportService(t *testing.T, db *sql.DB) *service.ImportService {
	t.Helper()

	fillRepo := repository.NewFillRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	return service.NewImportService(
		fillRepo,
		tradeRepo,
		NewTestJournalService(t, db),
	)
}

// NewTestResolutionService builds a resolution service. resolver may be nil
// when the test only exercises manual stamping.
func NewTestResolutionService(t *testing.T, db *sql.DB, resolver polymarket.Resolver) *service.ResolutionService {
	t.Helper()

	fillRepo := repository.NewFillRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	return service.NewResolutionService(
		fillRepo,
		tradeRepo,
		resolver,
	)
}

func NewTestNoteService(t *testing.T, db *sql.DB) *service.NoteService {
	t.Helper()

	noteRepo := repository.NewNoteRepository(db)
	tradeRepo := repository.NewTradeRepository(db)

	return service.NewNoteService(
		noteRepo,
		tradeRepo,
	)
}

func NewTestSettingsService(t *testing.T, db *sql.DB) *service.SettingsService {
	t.Helper()

	settingsRepo := repository.NewSettingsRepository(db)
	svc, err := service.NewSettingsService(settingsRepo, MakeFernetKey(t))
	if err != nil {
		t.Fatalf("Failed to create settings service: %v", err)
	}
	return svc
}
