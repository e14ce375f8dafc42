// Package rebalance implements the drift-driven trade calculator. Both
// operations are pure computations over portfolio snapshots; the service
// carries only its tuning parameters.
package rebalance

import (
	"fmt"
	"math"
	"sort"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// Service implements RebalanceService.
type Service struct {
	thresholdPct   float64 // drift dead-band, percentage points
	minTradeAmount float64 // dollars
	logger         *common.Logger
}

// NewService creates a rebalance calculator with the configured dead-band
// and minimum trade size.
func NewService(cfg common.RebalanceConfig, logger *common.Logger) *Service {
	return &Service{
		thresholdPct:   cfg.ThresholdPct,
		minTradeAmount: cfg.MinTradeAmount,
		logger:         logger,
	}
}

// GenerateRecommendations emits prioritized buy/sell trades for holdings that
// drift past the dead-band. Prices supplied in the prices map take precedence
// over the price carried on each holding. Symbols whose trade value does not
// clear the minimum are dropped to avoid uneconomical micro-trades.
func (s *Service) GenerateRecommendations(holdings *models.HoldingsResult, targets map[string]float64, prices map[string]float64) ([]models.Recommendation, error) {
	if holdings == nil || holdings.Status != models.StatusSuccess {
		return nil, fmt.Errorf("holdings unavailable")
	}
	totalValue := holdings.TotalValue
	if totalValue <= 0 {
		return nil, fmt.Errorf("portfolio total value must be positive, got %.2f", totalValue)
	}

	recommendations := []models.Recommendation{}
	for _, h := range holdings.Holdings {
		price := h.CurrentPrice
		if p, ok := prices[h.Symbol]; ok {
			price = p
		}
		if price <= 0 {
			return nil, fmt.Errorf("non-positive price for %s", h.Symbol)
		}

		currentValue := h.Shares * price
		currentPct := currentValue / totalValue * 100
		targetPct := targets[h.Symbol] // absent symbols target 0
		driftPct := currentPct - targetPct

		if math.Abs(driftPct) <= s.thresholdPct {
			continue
		}

		targetValue := targetPct / 100 * totalValue
		targetShares := targetValue / price
		sharesDiff := targetShares - h.Shares
		tradeValue := math.Abs(sharesDiff * price)

		if tradeValue <= s.minTradeAmount {
			continue
		}

		action := models.ActionSell
		if sharesDiff > 0 {
			action = models.ActionBuy
		}

		recommendations = append(recommendations, models.Recommendation{
			Symbol:            h.Symbol,
			Action:            action,
			Shares:            common.Round2(math.Abs(sharesDiff)),
			EstimatedValue:    common.Round2(tradeValue),
			CurrentAllocation: common.Round2(currentPct),
			TargetAllocation:  targetPct,
			DriftPct:          common.Round2(driftPct),
			Priority:          priorityFor(math.Abs(driftPct)),
		})
	}

	// Stable sort: ties keep the holdings' original relative order.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Priority > recommendations[j].Priority
	})

	return recommendations, nil
}

// CalculateTransactionCosts estimates commission and spread costs for a set
// of recommendations. Money fields are rounded to 2 decimals.
func (s *Service) CalculateTransactionCosts(recs []models.Recommendation, commissionPerTrade, spreadBps float64) models.TransactionCosts {
	numTrades := len(recs)
	totalCommission := float64(numTrades) * commissionPerTrade

	spreadCosts := 0.0
	for _, rec := range recs {
		spreadCosts += rec.EstimatedValue * (spreadBps / 10000)
	}

	return models.TransactionCosts{
		NumTrades:           numTrades,
		CommissionCosts:     common.Round2(totalCommission),
		SpreadCosts:         common.Round2(spreadCosts),
		TotalEstimatedCosts: common.Round2(totalCommission + spreadCosts),
	}
}

// priorityFor maps absolute drift magnitude to an urgency bucket.
func priorityFor(driftPct float64) int {
	switch {
	case driftPct > 15:
		return 5
	case driftPct > 10:
		return 4
	case driftPct > 7:
		return 3
	case driftPct > 5:
		return 2
	default:
		return 1
	}
}

// Ensure Service implements RebalanceService
var _ interfaces.RebalanceService = (*Service)(nil)
