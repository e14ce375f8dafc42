package rebalance

import (
	"testing"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/models"
)

func newTestService() *Service {
	return NewService(common.RebalanceConfig{
		ThresholdPct:   5.0,
		MinTradeAmount: 100.0,
	}, common.NewSilentLogger())
}

func successHoldings(holdings []models.Holding, cash float64) *models.HoldingsResult {
	total := cash
	for _, h := range holdings {
		total += h.Value()
	}
	return &models.HoldingsResult{
		Status:     models.StatusSuccess,
		Holdings:   holdings,
		Cash:       cash,
		TotalValue: total,
	}
}

func TestGenerateRecommendations_TwoSidedDrift(t *testing.T) {
	svc := newTestService()

	// AAPL 1785 (33.06%) vs 50% target, BND 3615 (66.94%) vs 50% target.
	holdings := successHoldings([]models.Holding{
		{Symbol: "AAPL", Shares: 10, CurrentPrice: 178.50},
		{Symbol: "BND", Shares: 50, CurrentPrice: 72.30},
	}, 0)
	targets := map[string]float64{"AAPL": 50.0, "BND": 50.0}

	recs, err := svc.GenerateRecommendations(holdings, targets, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("expected 2 recommendations, got %d", len(recs))
	}

	aapl := recs[0]
	if aapl.Symbol != "AAPL" {
		t.Fatalf("expected AAPL first (stable order on tied priority), got %s", aapl.Symbol)
	}
	if aapl.Action != models.ActionBuy {
		t.Errorf("expected BUY for underweight AAPL, got %s", aapl.Action)
	}
	if aapl.Shares != 5.13 {
		t.Errorf("expected 5.13 shares, got %.2f", aapl.Shares)
	}
	if aapl.EstimatedValue != 915.0 {
		t.Errorf("expected estimated value 915.00, got %.2f", aapl.EstimatedValue)
	}
	if aapl.CurrentAllocation != 33.06 {
		t.Errorf("expected current allocation 33.06, got %.2f", aapl.CurrentAllocation)
	}
	if aapl.DriftPct != -16.94 {
		t.Errorf("expected drift -16.94, got %.2f", aapl.DriftPct)
	}
	if aapl.Priority != 5 {
		t.Errorf("expected priority 5, got %d", aapl.Priority)
	}

	bnd := recs[1]
	if bnd.Symbol != "BND" || bnd.Action != models.ActionSell {
		t.Errorf("expected SELL BND second, got %s %s", bnd.Action, bnd.Symbol)
	}
	if bnd.EstimatedValue != 915.0 {
		t.Errorf("expected estimated value 915.00, got %.2f", bnd.EstimatedValue)
	}
}

func TestGenerateRecommendations_DeadBandSkips(t *testing.T) {
	svc := newTestService()

	// Exactly on target: zero drift, inside the dead-band.
	holdings := successHoldings([]models.Holding{
		{Symbol: "VTI", Shares: 10, CurrentPrice: 100.0},
	}, 1000)
	targets := map[string]float64{"VTI": 50.0}

	recs, err := svc.GenerateRecommendations(holdings, targets, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected no recommendations inside dead-band, got %d", len(recs))
	}
}

func TestGenerateRecommendations_MinTradeSkips(t *testing.T) {
	svc := newTestService()

	// Drift is 5.9 points (past the dead-band) but the trade is only $59.
	holdings := successHoldings([]models.Holding{
		{Symbol: "SML", Shares: 1, CurrentPrice: 59.0},
	}, 941)
	targets := map[string]float64{} // no target: full position is excess

	recs, err := svc.GenerateRecommendations(holdings, targets, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 0 {
		t.Errorf("expected micro-trade to be dropped, got %d recommendations", len(recs))
	}
}

func TestGenerateRecommendations_PricesOverrideHoldingPrice(t *testing.T) {
	svc := newTestService()

	holdings := successHoldings([]models.Holding{
		{Symbol: "AAPL", Shares: 10, CurrentPrice: 100.0},
	}, 1000)
	// At the supplied price the position is worth 2000 of a 3000 total
	// (total value is fixed on the holdings result, not recomputed).
	holdings.TotalValue = 3000
	targets := map[string]float64{"AAPL": 10.0}
	prices := map[string]float64{"AAPL": 200.0}

	recs, err := svc.GenerateRecommendations(holdings, targets, prices)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 recommendation, got %d", len(recs))
	}
	if recs[0].CurrentAllocation != 66.67 {
		t.Errorf("expected allocation from overridden price (66.67), got %.2f", recs[0].CurrentAllocation)
	}
	if recs[0].Action != models.ActionSell {
		t.Errorf("expected SELL, got %s", recs[0].Action)
	}
}

func TestGenerateRecommendations_SortedByPriorityStable(t *testing.T) {
	svc := newTestService()

	// ALPHA and GAMMA drift ~6 points (priority 2), BETA drifts ~20 (priority 5).
	holdings := successHoldings([]models.Holding{
		{Symbol: "ALPHA", Shares: 16, CurrentPrice: 100.0},
		{Symbol: "BETA", Shares: 30, CurrentPrice: 100.0},
		{Symbol: "GAMMA", Shares: 16, CurrentPrice: 100.0},
	}, 3800)
	targets := map[string]float64{"ALPHA": 10.0, "BETA": 10.0, "GAMMA": 10.0}

	recs, err := svc.GenerateRecommendations(holdings, targets, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("expected 3 recommendations, got %d", len(recs))
	}
	if recs[0].Symbol != "BETA" {
		t.Errorf("expected BETA first (highest priority), got %s", recs[0].Symbol)
	}
	if recs[1].Symbol != "ALPHA" || recs[2].Symbol != "GAMMA" {
		t.Errorf("expected stable ALPHA, GAMMA order on tie, got %s, %s", recs[1].Symbol, recs[2].Symbol)
	}
}

func TestGenerateRecommendations_Errors(t *testing.T) {
	svc := newTestService()

	if _, err := svc.GenerateRecommendations(nil, nil, nil); err == nil {
		t.Error("expected error for nil holdings")
	}

	errResult := &models.HoldingsResult{Status: models.StatusError, Message: "Portfolio data not found"}
	if _, err := svc.GenerateRecommendations(errResult, nil, nil); err == nil {
		t.Error("expected error for error-status holdings")
	}

	empty := &models.HoldingsResult{Status: models.StatusSuccess}
	if _, err := svc.GenerateRecommendations(empty, nil, nil); err == nil {
		t.Error("expected error for zero total value")
	}

	holdings := successHoldings([]models.Holding{
		{Symbol: "AAPL", Shares: 10, CurrentPrice: 100.0},
	}, 0)
	if _, err := svc.GenerateRecommendations(holdings, nil, map[string]float64{"AAPL": 0}); err == nil {
		t.Error("expected error for non-positive price")
	}
}

func TestPriorityFor(t *testing.T) {
	cases := []struct {
		drift float64
		want  int
	}{
		{16.0, 5},
		{15.0, 4},
		{12.0, 4},
		{10.0, 3},
		{8.0, 3},
		{7.0, 2},
		{5.5, 2},
		{5.0, 1},
		{2.0, 1},
	}
	for _, tc := range cases {
		if got := priorityFor(tc.drift); got != tc.want {
			t.Errorf("priorityFor(%.1f) = %d, want %d", tc.drift, got, tc.want)
		}
	}
}

func TestCalculateTransactionCosts(t *testing.T) {
	svc := newTestService()

	recs := []models.Recommendation{
		{Symbol: "AAPL", EstimatedValue: 1000.0},
		{Symbol: "BND", EstimatedValue: 500.0},
	}

	costs := svc.CalculateTransactionCosts(recs, 5.0, 10.0)
	if costs.NumTrades != 2 {
		t.Errorf("expected 2 trades, got %d", costs.NumTrades)
	}
	if costs.CommissionCosts != 10.0 {
		t.Errorf("expected commission 10.00, got %.2f", costs.CommissionCosts)
	}
	if costs.SpreadCosts != 1.5 {
		t.Errorf("expected spread 1.50, got %.2f", costs.SpreadCosts)
	}
	if costs.TotalEstimatedCosts != 11.5 {
		t.Errorf("expected total 11.50, got %.2f", costs.TotalEstimatedCosts)
	}
}

func TestCalculateTransactionCosts_Empty(t *testing.T) {
	svc := newTestService()

	costs := svc.CalculateTransactionCosts(nil, 5.0, 10.0)
	if costs.NumTrades != 0 || costs.CommissionCosts != 0 || costs.SpreadCosts != 0 || costs.TotalEstimatedCosts != 0 {
		t.Errorf("expected zero costs for no trades, got %+v", costs)
	}
}
