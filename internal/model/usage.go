package model

import "time"

// UsageSnapshot holds one tenant's counters for a single UTC day.
// Absent counters read as zero.
type UsageSnapshot struct {
	Date         string `json:"date"`
	Predictions  int64  `json:"predictions"`
	Trades       int64  `json:"trades_executed"`
	HighConfWins int64  `json:"high_confidence_wins"`
}

// Signal is a prediction produced by the engine collaborator.
type Signal struct {
	Symbol     string    `json:"symbol"`
	Action     string    `json:"action"` // BUY, SELL, HOLD
	Confidence float64   `json:"confidence"`
	Price      float64   `json:"price"`
	Regime     string    `json:"regime,omitempty"`
	Timestamp  time.Time `json:"timestamp"`
}

// TradeResult 交易执行结果
type TradeResult struct {
	TradeID  string  `json:"trade_id"`
	Symbol   string  `json:"symbol"`
	Action   string  `json:"action"`
	Price    float64 `json:"price"`
	Quantity float64 `json:"quantity"`
	Venue    string  `json:"venue"`
	Mode     string  `json:"mode"`
}
