// Package agent implements the tool registry and the conversation
// orchestration loop between the chat-completion endpoint and the portfolio
// services.
package agent

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// Tool pairs a function declaration with its local implementation.
type Tool struct {
	Declaration *genai.FunctionDeclaration
	Call        func(ctx context.Context, args map[string]any) (any, error)
}

// Registry holds the fixed, closed set of tools the model may invoke.
// Dispatch never lets a fault escape: the model always receives a
// JSON-serializable result, success or failure.
type Registry struct {
	tools  []Tool
	byName map[string]int
	logger *common.Logger
}

// NewRegistry builds the registry over the three domain services. Commission
// and spread defaults for the cost tool come from the rebalance config.
func NewRegistry(
	portfolioSvc interfaces.PortfolioService,
	marketSvc interfaces.MarketService,
	rebalanceSvc interfaces.RebalanceService,
	cfg common.RebalanceConfig,
	logger *common.Logger,
) *Registry {
	r := &Registry{
		byName: map[string]int{},
		logger: logger,
	}

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_portfolio_holdings",
			Description: "Get current portfolio holdings, cash balance, and total value",
			Parameters:  objectSchema(nil, nil),
		},
		Call: func(ctx context.Context, _ map[string]any) (any, error) {
			return portfolioSvc.GetHoldings(ctx), nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_target_allocation",
			Description: "Get target allocation percentages per symbol",
			Parameters:  objectSchema(nil, nil),
		},
		Call: func(ctx context.Context, _ map[string]any) (any, error) {
			return portfolioSvc.GetTargetAllocation(ctx), nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "calculate_allocation_drift",
			Description: "Calculate per-symbol drift between current and target allocation",
			Parameters:  objectSchema(nil, nil),
		},
		Call: func(ctx context.Context, _ map[string]any) (any, error) {
			drift := portfolioSvc.CalculateDrift(ctx)
			if drift.Status != models.StatusSuccess {
				// Propagate the holdings error shape verbatim.
				return map[string]any{"status": drift.Status, "message": drift.Message}, nil
			}
			return drift.Entries, nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_current_price",
			Description: "Get the current price for a symbol",
			Parameters: objectSchema(map[string]*genai.Schema{
				"symbol": {Type: genai.TypeString, Description: "Ticker symbol, e.g. 'AAPL'"},
			}, []string{"symbol"}),
		},
		Call: func(ctx context.Context, args map[string]any) (any, error) {
			symbol, err := stringArg(args, "symbol")
			if err != nil {
				return nil, err
			}
			return marketSvc.GetPrice(ctx, symbol), nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "get_multiple_prices",
			Description: "Get current prices for multiple symbols",
			Parameters: objectSchema(map[string]*genai.Schema{
				"symbols": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeString},
					Description: "Ticker symbols to price",
				},
			}, []string{"symbols"}),
		},
		Call: func(ctx context.Context, args map[string]any) (any, error) {
			symbols, err := stringSliceArg(args, "symbols")
			if err != nil {
				return nil, err
			}
			return marketSvc.GetPrices(ctx, symbols), nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "is_market_open",
			Description: "Check whether the market is currently open for trading",
			Parameters:  objectSchema(nil, nil),
		},
		Call: func(ctx context.Context, _ map[string]any) (any, error) {
			return marketSvc.IsMarketOpen(ctx), nil
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "generate_rebalance_recommendations",
			Description: "Generate prioritized buy/sell recommendations to restore target allocation",
			Parameters: objectSchema(map[string]*genai.Schema{
				"current_holdings":  {Type: genai.TypeObject, Description: "Holdings result from get_portfolio_holdings"},
				"target_allocation": {Type: genai.TypeObject, Description: "Symbol to target percentage mapping"},
				"current_prices":    {Type: genai.TypeObject, Description: "Symbol to price mapping"},
			}, []string{"current_holdings", "target_allocation", "current_prices"}),
		},
		Call: func(_ context.Context, args map[string]any) (any, error) {
			var holdings models.HoldingsResult
			if err := decodeArg(args, "current_holdings", &holdings); err != nil {
				return nil, err
			}
			var targets map[string]float64
			if err := decodeArg(args, "target_allocation", &targets); err != nil {
				return nil, err
			}
			var prices map[string]float64
			if err := decodeArg(args, "current_prices", &prices); err != nil {
				return nil, err
			}
			return rebalanceSvc.GenerateRecommendations(&holdings, targets, prices)
		},
	})

	r.add(Tool{
		Declaration: &genai.FunctionDeclaration{
			Name:        "calculate_transaction_costs",
			Description: "Estimate commission and spread costs for a set of recommendations",
			Parameters: objectSchema(map[string]*genai.Schema{
				"recommendations": {
					Type:        genai.TypeArray,
					Items:       &genai.Schema{Type: genai.TypeObject},
					Description: "Recommendations from generate_rebalance_recommendations",
				},
				"commission_per_trade": {Type: genai.TypeNumber, Description: "Dollars per trade (optional)"},
				"spread_bps":           {Type: genai.TypeNumber, Description: "Bid/ask spread in basis points (optional)"},
			}, []string{"recommendations"}),
		},
		Call: func(_ context.Context, args map[string]any) (any, error) {
			var recs []models.Recommendation
			if err := decodeArg(args, "recommendations", &recs); err != nil {
				return nil, err
			}
			commission := floatArg(args, "commission_per_trade", cfg.CommissionPerTrade)
			spreadBps := floatArg(args, "spread_bps", cfg.SpreadBps)
			return rebalanceSvc.CalculateTransactionCosts(recs, commission, spreadBps), nil
		},
	})

	return r
}

func (r *Registry) add(t Tool) {
	r.byName[t.Declaration.Name] = len(r.tools)
	r.tools = append(r.tools, t)
}

// Declarations returns the tool declarations in registration order.
func (r *Registry) Declarations() []*genai.FunctionDeclaration {
	decls := make([]*genai.FunctionDeclaration, len(r.tools))
	for i, t := range r.tools {
		decls[i] = t.Declaration
	}
	return decls
}

// Tools returns the registered tools in registration order.
func (r *Registry) Tools() []Tool {
	return r.tools
}

// Dispatch resolves and executes a tool call, always returning a
// JSON-serializable payload. Unknown names, tool errors, and panics all come
// back as {"error": message} values rather than faults.
func (r *Registry) Dispatch(ctx context.Context, name string, args map[string]any) (payload any) {
	idx, ok := r.byName[name]
	if !ok {
		return map[string]any{"error": fmt.Sprintf("Function %s not found", name)}
	}

	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error().Str("tool", name).Str("panic", fmt.Sprintf("%v", rec)).Msg("Tool panicked")
			payload = map[string]any{"error": fmt.Sprintf("%v", rec)}
		}
	}()

	result, err := r.tools[idx].Call(ctx, args)
	if err != nil {
		r.logger.Warn().Err(err).Str("tool", name).Msg("Tool returned error")
		return map[string]any{"error": err.Error()}
	}
	return result
}

// --- argument helpers ---

func objectSchema(properties map[string]*genai.Schema, required []string) *genai.Schema {
	if properties == nil {
		properties = map[string]*genai.Schema{}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: properties,
		Required:   required,
	}
}

func stringArg(args map[string]any, key string) (string, error) {
	v, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required parameter '%s'", key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string, got %T", key, v)
	}
	return s, nil
}

func stringSliceArg(args map[string]any, key string) ([]string, error) {
	v, ok := args[key]
	if !ok {
		return nil, fmt.Errorf("missing required parameter '%s'", key)
	}
	raw, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("parameter '%s' must be an array of strings, got %T", key, v)
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("parameter '%s' must contain only strings, got %T", key, item)
		}
		out = append(out, s)
	}
	return out, nil
}

func floatArg(args map[string]any, key string, fallback float64) float64 {
	if v, ok := args[key]; ok {
		if f, ok := v.(float64); ok {
			return f
		}
	}
	return fallback
}

// decodeArg re-marshals a loosely-typed argument value into a concrete
// struct or map. The model sends arbitrary JSON; this is the one place the
// shape is enforced.
func decodeArg(args map[string]any, key string, dest any) error {
	v, ok := args[key]
	if !ok {
		return fmt.Errorf("missing required parameter '%s'", key)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("parameter '%s' is not serializable: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("parameter '%s' has the wrong shape: %w", key, err)
	}
	return nil
}
