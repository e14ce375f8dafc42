// Package models defines the data structures shared across Rebal services.
package models

// Result status values used by structured tool payloads.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Holding is a single position in the portfolio document.
type Holding struct {
	Symbol       string  `json:"symbol"`
	Shares       float64 `json:"shares"`
	CurrentPrice float64 `json:"current_price"`
}

// Value returns the market value of the holding at its carried price.
func (h Holding) Value() float64 {
	return h.Shares * h.CurrentPrice
}

// PortfolioDocument is the flat JSON document backing the portfolio store.
// It is replaced wholesale on write; there are no partial updates.
type PortfolioDocument struct {
	Holdings         []Holding          `json:"holdings"`
	Cash             float64            `json:"cash"`
	TargetAllocation map[string]float64 `json:"target_allocation"`
}

// TotalValue computes holdings value plus cash.
func (d *PortfolioDocument) TotalValue() float64 {
	total := d.Cash
	for _, h := range d.Holdings {
		total += h.Value()
	}
	return total
}

// HoldingsResult is the structured payload returned by the holdings lookup.
// Status is "error" with a Message when the backing document is unavailable;
// the lookup never surfaces a Go error for a missing document.
type HoldingsResult struct {
	Status     string    `json:"status"`
	Holdings   []Holding `json:"holdings"`
	Cash       float64   `json:"cash"`
	TotalValue float64   `json:"total_value"`
	Message    string    `json:"message,omitempty"`
}

// DriftEntry describes one symbol's deviation from its target weight.
// Percentage fields are rounded to 2 decimals for display; they are derived
// from unrounded intermediates.
type DriftEntry struct {
	CurrentAllocation float64 `json:"current_allocation"` // percent of total value
	TargetAllocation  float64 `json:"target_allocation"`  // percent, 0 when the symbol has no target
	Drift             float64 `json:"drift"`              // current - target, percentage points
	DriftDollars      float64 `json:"drift_dollars"`
}

// DriftResult carries per-symbol drift entries, or the propagated holdings
// error when the document could not be read.
type DriftResult struct {
	Status  string                `json:"status"`
	Message string                `json:"message,omitempty"`
	Entries map[string]DriftEntry `json:"drift"`
}

// Quote is a single price lookup result.
type Quote struct {
	Symbol    string  `json:"symbol"`
	Price     float64 `json:"price"`
	Timestamp string  `json:"timestamp"`
	Source    string  `json:"source"`
}

// MarketStatus reports whether the market is currently trading.
type MarketStatus struct {
	IsOpen      bool   `json:"is_open"`
	NextOpen    string `json:"next_open"`
	CurrentTime string `json:"current_time"`
}
