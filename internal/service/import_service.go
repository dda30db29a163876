package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/apperrors"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/model"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/polymarket"
	"github.com/quantjournal/Polymarket-Journal-Backend/internal/repository"
)

// ImportService handles ingestion of fills from CSV uploads and the sync
// endpoint: parsing, per-row validation, normalization into canonical
// trades and the keyed upserts that make re-imports idempotent. Every
// successful import ends with a day-stat recompute for the user.
type ImportService struct {
	fillRepo       *repository.FillRepository
	tradeRepo      *repository.TradeRepository
	journalService *JournalService
}

// NewImportService creates a new ImportService with the provided dependencies.
func NewImportService(
	fillRepo *repository.FillRepository,
	tradeRepo *repository.TradeRepository,
	journalService *JournalService,
) *ImportService {
	return &ImportService{
		fillRepo:       fillRepo,
		tradeRepo:      tradeRepo,
		journalService: journalService,
	}
}

// ImportResult reports the outcome of a fill-export import. Partial success
// is explicit: rejected rows are listed alongside the imported count.
type ImportResult struct {
	Imported int                   `json:"imported"`
	Errors   []polymarket.RowError `json:"errors"`
}

// TradeImportResult reports the outcome of a trade-export import.
type TradeImportResult struct {
	Imported int                   `json:"imported"`
	Skipped  int                   `json:"skipped"`
	Total    int                   `json:"total"`
	Errors   []polymarket.RowError `json:"errors"`
}

// ImportFillsCSV ingests a shape-A fill export for the user. Header
// problems reject the whole upload; invalid rows are skipped and reported.
// A file yielding zero valid rows fails the request.
func (s *ImportService) ImportFillsCSV(ctx context.Context, userID, wallet, text string) (ImportResult, error) {
	rows, rowErrs, err := polymarket.ParseFillsCSV(text)
	if err != nil {
		return ImportResult{}, err
	}
	if len(rows) == 0 {
		return ImportResult{}, apperrors.ErrNoValidRows
	}

	fills := make([]model.Fill, 0, len(rows))
	trades := make([]model.Trade, 0, len(rows))
	for _, row := range rows {
		fill, trade := normalizeFill(userID, wallet, row)
		fills = append(fills, fill)
		trades = append(trades, trade)
	}

	if err := s.persist(ctx, userID, fills, trades); err != nil {
		return ImportResult{}, err
	}

	result := ImportResult{Imported: len(rows), Errors: rowErrs}
	if result.Errors == nil {
		result.Errors = []polymarket.RowError{}
	}
	return result, nil
}

// ImportTradesCSV ingests a shape-B trade export. The explicit category
// column is trusted when it names a known category; otherwise the title
// classifier decides. The tx_id column is the idempotency key.
func (s *ImportService) ImportTradesCSV(ctx context.Context, userID string, text string) (TradeImportResult, error) {
	rows, rowErrs, err := polymarket.ParseTradesCSV(text)
	if err != nil {
		return TradeImportResult{}, err
	}
	if len(rows) == 0 {
		return TradeImportResult{}, apperrors.ErrNoValidRows
	}

	fills := make([]model.Fill, 0, len(rows))
	trades := make([]model.Trade, 0, len(rows))
	for _, row := range rows {
		fill, trade := normalizeTradeRow(userID, row)
		fills = append(fills, fill)
		trades = append(trades, trade)
	}

	if err := s.persist(ctx, userID, fills, trades); err != nil {
		return TradeImportResult{}, err
	}

	result := TradeImportResult{
		Imported: len(rows),
		Skipped:  len(rowErrs),
		Total:    len(rows) + len(rowErrs),
		Errors:   rowErrs,
	}
	if result.Errors == nil {
		result.Errors = []polymarket.RowError{}
	}
	return result, nil
}

// SyncFills ingests fills pushed through the sync endpoint. An empty fill
// list is a no-op acknowledgment; synced reports how many fills landed.
func (s *ImportService) SyncFills(ctx context.Context, userID, wallet string, payload polymarket.SyncPayload) (int, error) {
	if len(payload.Fills) == 0 {
		return 0, nil
	}

	fills := make([]model.Fill, 0, len(payload.Fills))
	trades := make([]model.Trade, 0, len(payload.Fills))
	for i, f := range payload.Fills {
		row, err := syncFillToRow(f)
		if err != nil {
			return 0, fmt.Errorf("%w at index %d: %v", apperrors.ErrInvalidFill, i, err)
		}
		fill, trade := normalizeFill(userID, wallet, row)
		fills = append(fills, fill)
		trades = append(trades, trade)
	}

	if err := s.persist(ctx, userID, fills, trades); err != nil {
		return 0, err
	}
	return len(fills), nil
}

func (s *ImportService) persist(ctx context.Context, userID string, fills []model.Fill, trades []model.Trade) error {
	if err := s.fillRepo.UpsertFills(ctx, fills); err != nil {
		return err
	}
	if err := s.tradeRepo.UpsertTrades(ctx, trades); err != nil {
		return err
	}
	return s.journalService.RecomputeDayStats(ctx, userID)
}

// normalizeFill maps a validated raw fill into its audit record and the
// canonical trade. The trade's upsert key is the source fill id; pnl and
// outcome start as placeholders until the market resolves.
func normalizeFill(userID, wallet string, row polymarket.RawFillRow) (model.Fill, model.Trade) {
	timestamp, _ := polymarket.ParseTimestamp(row.Timestamp) // validated at parse time

	raw, _ := json.Marshal(row)
	fill := model.Fill{
		ID:          row.FillID,
		UserID:      userID,
		Wallet:      wallet,
		MarketID:    row.MarketID,
		MarketTitle: row.MarketTitle,
		Side:        model.Side(row.Side),
		Price:       row.Price,
		Quantity:    row.Quantity,
		Fee:         row.Fee,
		Timestamp:   timestamp,
		TxHash:      row.TxHash,
		RawJSON:     string(raw),
	}

	trade := newTrade(userID, row.FillID, row.MarketID, row.MarketTitle,
		model.ClassifyTitle(row.MarketTitle), fill.Side, row.Price, row.Quantity, row.Fee, timestamp)

	return fill, trade
}

// normalizeTradeRow maps a validated shape-B row. The fill audit record is
// keyed by tx_id since that format carries no separate fill id.
func normalizeTradeRow(userID string, row polymarket.RawTradeRow) (model.Fill, model.Trade) {
	timestamp, _ := polymarket.ParseTimestamp(row.ExecutedAt)

	category, ok := model.ParseCategory(row.Category)
	if !ok {
		category = model.ClassifyTitle(row.Title)
	}

	raw, _ := json.Marshal(map[string]any{
		"market_id": row.MarketID, "title": row.Title, "category": row.Category,
		"side": row.Side, "price": row.Price, "quantity": row.Quantity,
		"fee": row.Fee, "executed_at": row.ExecutedAt, "tx_id": row.TxID,
	})
	fill := model.Fill{
		ID:          row.TxID,
		UserID:      userID,
		MarketID:    row.MarketID,
		MarketTitle: row.Title,
		Side:        model.Side(row.Side),
		Price:       row.Price,
		Quantity:    row.Quantity,
		Fee:         row.Fee,
		Timestamp:   timestamp,
		TxHash:      row.TxID,
		RawJSON:     string(raw),
	}

	trade := newTrade(userID, row.TxID, row.MarketID, row.Title,
		category, fill.Side, row.Price, row.Quantity, row.Fee, timestamp)

	return fill, trade
}

func newTrade(userID, sourceFillID, marketID, marketTitle string, category model.Category,
	side model.Side, price, quantity, fee float64, timestamp time.Time) model.Trade {

	trade := model.Trade{
		ID:           uuid.New().String(),
		UserID:       userID,
		Date:         utcDate(timestamp),
		MarketID:     marketID,
		MarketTitle:  marketTitle,
		Category:     category,
		Side:         side,
		Fee:          fee,
		PnL:          0,
		Outcome:      model.OutcomeOpen,
		Volume:       abs(price * quantity),
		Quantity:     quantity,
		SourceFillID: sourceFillID,
	}
	if side == model.SideBuy {
		trade.Entry = &price
	} else {
		trade.Exit = &price
	}
	return trade
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func syncFillToRow(f polymarket.SyncFill) (polymarket.RawFillRow, error) {
	fee := 0.0
	if f.Fee != nil {
		fee = *f.Fee
	}
	row := polymarket.RawFillRow{
		FillID:      f.FillID,
		MarketID:    f.MarketID,
		MarketTitle: f.MarketTitle,
		Side:        strings.ToLower(f.Side),
		Price:       f.Price,
		Quantity:    f.Quantity,
		Fee:         fee,
		Timestamp:   f.Timestamp,
		TxHash:      f.TxHash,
	}
	if row.FillID == "" || row.MarketID == "" || row.MarketTitle == "" || row.Timestamp == "" {
		return polymarket.RawFillRow{}, fmt.Errorf("missing required fields")
	}
	if row.Side != "buy" && row.Side != "sell" {
		return polymarket.RawFillRow{}, fmt.Errorf("invalid side %q", f.Side)
	}
	if _, err := polymarket.ParseTimestamp(row.Timestamp); err != nil {
		return polymarket.RawFillRow{}, err
	}
	return row, nil
}
