package models

// Trade actions emitted by the rebalance calculator.
const (
	ActionBuy  = "BUY"
	ActionSell = "SELL"
)

// Recommendation is a single prioritized rebalancing trade. It exists only as
// a response payload; nothing persists it.
type Recommendation struct {
	Symbol            string  `json:"symbol"`
	Action            string  `json:"action"` // BUY or SELL
	Shares            float64 `json:"shares"` // absolute, rounded to 2 decimals
	EstimatedValue    float64 `json:"estimated_value"`
	CurrentAllocation float64 `json:"current_allocation"`
	TargetAllocation  float64 `json:"target_allocation"`
	DriftPct          float64 `json:"drift_pct"`
	Priority          int     `json:"priority"` // 1..5, from drift magnitude breakpoints
}

// TransactionCosts estimates the cost of executing a set of recommendations.
type TransactionCosts struct {
	NumTrades           int     `json:"num_trades"`
	CommissionCosts     float64 `json:"commission_costs"`
	SpreadCosts         float64 `json:"spread_costs"`
	TotalEstimatedCosts float64 `json:"total_estimated_costs"`
}
