package domain

import "time"

type TradeStatus string

const (
	TradeSuccess TradeStatus = "SUCCESS"
	TradeFailed  TradeStatus = "FAILED"
)

// TradeRecord is one execution attempt in the append-only ledger.
// Created once per attempt and never mutated.
type TradeRecord struct {
	ID        string      `json:"id"`
	Timestamp time.Time   `json:"timestamp"`
	AssetID   string      `json:"asset_id"`
	Side      Side        `json:"side"`
	Amount    float64     `json:"amount"`
	Status    TradeStatus `json:"status"`
	// Reference holds the transaction signature on success, or the
	// error detail on failure.
	Reference string `json:"reference"`
}

// TradeResult is the executor's reply to a successful submission.
type TradeResult struct {
	Reference string `json:"reference"` // transaction signature
}
