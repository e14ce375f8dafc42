// Package interfaces defines service contracts for Rebal
package interfaces

import (
	"context"

	"github.com/bobmcallan/rebal/internal/models"
)

// PortfolioService reads the portfolio document and derives allocation state.
// The document is loaded fresh on every call; nothing is cached.
type PortfolioService interface {
	// GetHoldings returns holdings, cash, and total value, or a structured
	// error result when the backing document is unavailable.
	GetHoldings(ctx context.Context) *models.HoldingsResult

	// GetTargetAllocation returns the symbol→percentage target mapping.
	// A missing document yields an empty mapping, not an error.
	GetTargetAllocation(ctx context.Context) map[string]float64

	// CalculateDrift computes per-symbol drift from target allocation,
	// propagating the holdings error verbatim when retrieval failed.
	CalculateDrift(ctx context.Context) *models.DriftResult
}

// MarketService provides price quotes and the market-open determination.
type MarketService interface {
	// GetPrice returns a quote for the symbol. Unknown symbols resolve to a
	// deterministic fallback price rather than erroring.
	GetPrice(ctx context.Context, symbol string) *models.Quote

	// GetPrices returns a symbol→price mapping via repeated single lookups.
	GetPrices(ctx context.Context, symbols []string) map[string]float64

	// IsMarketOpen reports whether the market is trading right now.
	IsMarketOpen(ctx context.Context) *models.MarketStatus
}

// RebalanceService turns a portfolio snapshot into prioritized trades.
// Both operations are pure computations over their inputs.
type RebalanceService interface {
	// GenerateRecommendations emits buy/sell trades for symbols whose drift
	// exceeds the dead-band and whose trade value clears the minimum,
	// sorted by priority descending.
	GenerateRecommendations(holdings *models.HoldingsResult, targets map[string]float64, prices map[string]float64) ([]models.Recommendation, error)

	// CalculateTransactionCosts estimates commission and spread costs for a
	// set of recommendations.
	CalculateTransactionCosts(recs []models.Recommendation, commissionPerTrade, spreadBps float64) models.TransactionCosts
}

// Orchestrator drives one chat turn: it forwards the user message and history
// to the completion endpoint, executes requested tool calls, and loops until
// the model produces plain text (or the round cap is reached).
type Orchestrator interface {
	Chat(ctx context.Context, userMessage string, history []models.ConversationMessage) (*models.ChatResult, error)
}
