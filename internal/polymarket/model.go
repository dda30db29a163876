package polymarket

// RawFillRow is one parsed line of a fill export (header shape
// fill_id,market_id,market_title,side,price,quantity,fee,timestamp,tx_hash)
// or one element of a sync payload. Values are validated but otherwise
// untouched; normalization into a canonical trade happens in the service
// layer.
type RawFillRow struct {
	FillID      string  `json:"fill_id"`
	MarketID    string  `json:"market_id"`
	MarketTitle string  `json:"market_title"`
	Side        string  `json:"side"`
	Price       float64 `json:"price"`
	Quantity    float64 `json:"quantity"`
	Fee         float64 `json:"fee"`
	Timestamp   string  `json:"timestamp"`
	TxHash      string  `json:"tx_hash,omitempty"`
}

// RawTradeRow is one parsed line of a trade export (header shape
// market_id,title,category,side,price,quantity,fee,executed_at,tx_id).
// Unlike RawFillRow it carries an explicit category column, trusted as-is,
// and uses tx_id as the idempotency key.
type RawTradeRow struct {
	MarketID   string
	Title      string
	Category   string
	Side       string
	Price      float64
	Quantity   float64
	Fee        float64
	ExecutedAt string
	TxID       string
}

// SyncPayload is the JSON body accepted by the sync endpoint. A missing or
// empty Fills slice is a no-op acknowledgment, not an error.
type SyncPayload struct {
	Fills []SyncFill `json:"fills"`
}

// SyncFill mirrors RawFillRow with the looser typing of the stub sync
// payload (fee and tx_hash optional).
type SyncFill struct {
	FillID      string   `json:"fill_id"`
	MarketID    string   `json:"market_id"`
	MarketTitle string   `json:"market_title"`
	Side        string   `json:"side"`
	Price       float64  `json:"price"`
	Quantity    float64  `json:"quantity"`
	Fee         *float64 `json:"fee"`
	Timestamp   string   `json:"timestamp"`
	TxHash      string   `json:"tx_hash"`
}

// RowError reports one rejected data row. Row is the 1-based file row
// number: the header counts as row 1, so the first data row is row 2.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}
