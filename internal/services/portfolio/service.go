// Package portfolio implements the portfolio data service over the flat
// document store.
package portfolio

import (
	"context"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// Service implements PortfolioService. The document is loaded fresh on every
// call so external edits to the file are picked up without a restart.
type Service struct {
	store  interfaces.PortfolioStore
	logger *common.Logger
}

// NewService creates a new portfolio service.
func NewService(store interfaces.PortfolioStore, logger *common.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// GetHoldings returns holdings, cash, and total value. A missing or broken
// document surfaces as a structured error result, never a Go error.
func (s *Service) GetHoldings(ctx context.Context) *models.HoldingsResult {
	doc, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", s.store.Path()).Msg("Portfolio document unavailable")
		return &models.HoldingsResult{
			Status:  models.StatusError,
			Message: "Portfolio data not found",
		}
	}

	return &models.HoldingsResult{
		Status:     models.StatusSuccess,
		Holdings:   doc.Holdings,
		Cash:       doc.Cash,
		TotalValue: doc.TotalValue(),
	}
}

// GetTargetAllocation returns the target mapping. A missing document yields
// an empty mapping; this asymmetry with GetHoldings is deliberate and matches
// the documented store policy.
func (s *Service) GetTargetAllocation(ctx context.Context) map[string]float64 {
	doc, err := s.store.Load(ctx)
	if err != nil {
		return map[string]float64{}
	}
	return doc.TargetAllocation
}

// CalculateDrift computes per-symbol deviation from target allocation.
// Percentages and dollar drift are rounded to 2 decimals on output; the
// dollar figure is derived from the unrounded percentage.
func (s *Service) CalculateDrift(ctx context.Context) *models.DriftResult {
	holdings := s.GetHoldings(ctx)
	if holdings.Status != models.StatusSuccess {
		return &models.DriftResult{
			Status:  holdings.Status,
			Message: holdings.Message,
		}
	}

	targets := s.GetTargetAllocation(ctx)
	totalValue := holdings.TotalValue

	entries := make(map[string]models.DriftEntry, len(holdings.Holdings))
	for _, h := range holdings.Holdings {
		currentPct := 0.0
		if totalValue > 0 {
			currentPct = h.Value() / totalValue * 100
		}
		targetPct := targets[h.Symbol] // absent symbols target 0
		driftPct := currentPct - targetPct

		entries[h.Symbol] = models.DriftEntry{
			CurrentAllocation: common.Round2(currentPct),
			TargetAllocation:  targetPct,
			Drift:             common.Round2(driftPct),
			DriftDollars:      common.Round2(driftPct / 100 * totalValue),
		}
	}

	return &models.DriftResult{
		Status:  models.StatusSuccess,
		Entries: entries,
	}
}

// Ensure Service implements PortfolioService
var _ interfaces.PortfolioService = (*Service)(nil)
