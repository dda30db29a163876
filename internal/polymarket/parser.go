// Package polymarket parses Polymarket fill exports and sync payloads into
// raw rows, and resolves settlement prices via the public Gamma API.
package polymarket

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FillHeader is the required column set for fill exports (shape A).
var FillHeader = []string{
	"fill_id", "market_id", "market_title", "side",
	"price", "quantity", "fee", "timestamp", "tx_hash",
}

// TradeHeader is the required column set for trade exports (shape B).
var TradeHeader = []string{
	"market_id", "title", "category", "side",
	"price", "quantity", "fee", "executed_at", "tx_id",
}

// HeaderError reports required columns missing from an upload's header row.
// The whole upload is rejected; there is no partial acceptance of headers.
type HeaderError struct {
	Missing []string
}

func (e *HeaderError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// ParseFillsCSV parses a shape-A fill export. Rows that fail validation are
// collected as RowErrors with their file row number and do not abort the
// batch. A *HeaderError is returned when required columns are absent.
func ParseFillsCSV(text string) ([]RawFillRow, []RowError, error) {
	records, err := parseRecords(text, FillHeader)
	if err != nil {
		return nil, nil, err
	}

	var rows []RawFillRow
	var rowErrs []RowError
	for _, rec := range records {
		row, err := toFillRow(rec.fields)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rec.row, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// ParseTradesCSV parses a shape-B trade export. The category column is
// carried through as-is; interpretation is left to the caller.
func ParseTradesCSV(text string) ([]RawTradeRow, []RowError, error) {
	records, err := parseRecords(text, TradeHeader)
	if err != nil {
		return nil, nil, err
	}

	var rows []RawTradeRow
	var rowErrs []RowError
	for _, rec := range records {
		row, err := toTradeRow(rec.fields)
		if err != nil {
			rowErrs = append(rowErrs, RowError{Row: rec.row, Message: err.Error()})
			continue
		}
		rows = append(rows, row)
	}
	return rows, rowErrs, nil
}

// record is one data row keyed by header name, tagged with its 1-based file
// row number (the header row counts as row 1).
type record struct {
	row    int
	fields map[string]string
}

// parseRecords splits the upload into lines, checks the header against the
// required column set and maps each data row by column name. Blank lines are
// skipped without consuming a row number.
func parseRecords(text string, required []string) ([]record, error) {
	lines := strings.Split(strings.TrimSpace(text), "\n")

	var header []string
	var dataLines []string
	for _, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		if header == nil {
			header = splitLine(line)
			continue
		}
		dataLines = append(dataLines, line)
	}

	if header == nil {
		return nil, &HeaderError{Missing: required}
	}

	present := make(map[string]int, len(header))
	for i, h := range header {
		present[h] = i
	}

	var missing []string
	for _, col := range required {
		if _, ok := present[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &HeaderError{Missing: missing}
	}

	records := make([]record, 0, len(dataLines))
	for i, line := range dataLines {
		cols := splitLine(line)
		fields := make(map[string]string, len(header))
		for name, idx := range present {
			if idx < len(cols) {
				fields[name] = cols[idx]
			}
		}
		records = append(records, record{row: i + 2, fields: fields})
	}
	return records, nil
}

// splitLine splits one CSV line on commas with quote awareness: a field may
// be wrapped in double quotes to contain literal commas. Doubled-quote
// escaping is not supported; a quote character always toggles quoting.
func splitLine(line string) []string {
	var cols []string
	var current strings.Builder
	inQuotes := false

	for _, ch := range line {
		switch {
		case ch == '"':
			inQuotes = !inQuotes
		case ch == ',' && !inQuotes:
			cols = append(cols, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(ch)
		}
	}
	cols = append(cols, strings.TrimSpace(current.String()))
	return cols
}

func toFillRow(fields map[string]string) (RawFillRow, error) {
	side := strings.ToLower(fields["side"])
	if side != "buy" && side != "sell" {
		return RawFillRow{}, fmt.Errorf("invalid side %q", fields["side"])
	}

	price, err := parseNumber(fields["price"], "price")
	if err != nil {
		return RawFillRow{}, err
	}
	quantity, err := parseNumber(fields["quantity"], "quantity")
	if err != nil {
		return RawFillRow{}, err
	}
	fee, err := parseOptionalNumber(fields["fee"], "fee")
	if err != nil {
		return RawFillRow{}, err
	}

	row := RawFillRow{
		FillID:      fields["fill_id"],
		MarketID:    fields["market_id"],
		MarketTitle: fields["market_title"],
		Side:        side,
		Price:       price,
		Quantity:    quantity,
		Fee:         fee,
		Timestamp:   fields["timestamp"],
		TxHash:      fields["tx_hash"],
	}
	if row.FillID == "" || row.MarketID == "" || row.MarketTitle == "" || row.Timestamp == "" {
		return RawFillRow{}, fmt.Errorf("invalid or missing fields")
	}
	if _, err := ParseTimestamp(row.Timestamp); err != nil {
		return RawFillRow{}, err
	}
	return row, nil
}

func toTradeRow(fields map[string]string) (RawTradeRow, error) {
	side := strings.ToLower(fields["side"])
	if side != "buy" && side != "sell" {
		return RawTradeRow{}, fmt.Errorf("invalid side %q", fields["side"])
	}

	price, err := parseNumber(fields["price"], "price")
	if err != nil {
		return RawTradeRow{}, err
	}
	quantity, err := parseNumber(fields["quantity"], "quantity")
	if err != nil {
		return RawTradeRow{}, err
	}
	fee, err := parseOptionalNumber(fields["fee"], "fee")
	if err != nil {
		return RawTradeRow{}, err
	}

	row := RawTradeRow{
		MarketID:   fields["market_id"],
		Title:      fields["title"],
		Category:   fields["category"],
		Side:       side,
		Price:      price,
		Quantity:   quantity,
		Fee:        fee,
		ExecutedAt: fields["executed_at"],
		TxID:       fields["tx_id"],
	}
	if row.MarketID == "" || row.Title == "" || row.ExecutedAt == "" || row.TxID == "" {
		return RawTradeRow{}, fmt.Errorf("invalid or missing fields")
	}
	if _, err := ParseTimestamp(row.ExecutedAt); err != nil {
		return RawTradeRow{}, err
	}
	return row, nil
}

// timestampLayouts are the execution-timestamp formats accepted from
// uploads and sync payloads.
var timestampLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an execution timestamp, always returning UTC.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
}

func parseNumber(s, name string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, fmt.Errorf("missing %s", name)
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("invalid %s %q", name, s)
	}
	return n, nil
}

func parseOptionalNumber(s, name string) (float64, error) {
	if strings.TrimSpace(s) == "" {
		return 0, nil
	}
	return parseNumber(s, name)
}
