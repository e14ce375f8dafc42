package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// handleGetVersion implements the get_version tool
func handleGetVersion() server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := fmt.Sprintf("Rebal MCP Server\nVersion: %s\nBuild: %s\nCommit: %s\nStatus: OK",
			common.GetVersion(), common.GetBuild(), common.GetGitCommit())
		return textResult(result), nil
	}
}

// handleGetHoldings implements the get_portfolio_holdings tool
func handleGetHoldings(portfolioService interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holdings := portfolioService.GetHoldings(ctx)
		if holdings.Status != models.StatusSuccess {
			return errorResult("Error: " + holdings.Message), nil
		}
		return jsonResult(holdings)
	}
}

// handleGetTargetAllocation implements the get_target_allocation tool
func handleGetTargetAllocation(portfolioService interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(portfolioService.GetTargetAllocation(ctx))
	}
}

// handleCalculateDrift implements the calculate_allocation_drift tool
func handleCalculateDrift(portfolioService interfaces.PortfolioService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		drift := portfolioService.CalculateDrift(ctx)
		if drift.Status != models.StatusSuccess {
			return errorResult("Error: " + drift.Message), nil
		}
		return jsonResult(drift.Entries)
	}
}

// handleGetPrice implements the get_current_price tool
func handleGetPrice(marketService interfaces.MarketService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbol, err := request.RequireString("symbol")
		if err != nil || symbol == "" {
			return errorResult("Error: symbol parameter is required"), nil
		}
		return jsonResult(marketService.GetPrice(ctx, symbol))
	}
}

// handleGetPrices implements the get_multiple_prices tool
func handleGetPrices(marketService interfaces.MarketService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		symbols := request.GetStringSlice("symbols", nil)
		if len(symbols) == 0 {
			return errorResult("Error: symbols parameter is required"), nil
		}
		return jsonResult(marketService.GetPrices(ctx, symbols))
	}
}

// handleIsMarketOpen implements the is_market_open tool
func handleIsMarketOpen(marketService interfaces.MarketService) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(marketService.IsMarketOpen(ctx))
	}
}

// handleRebalanceRecommendations implements the generate_rebalance_recommendations tool.
// Unlike the chat tool of the same name, this one gathers holdings, targets,
// and prices itself so MCP clients get a one-shot answer.
func handleRebalanceRecommendations(
	portfolioService interfaces.PortfolioService,
	marketService interfaces.MarketService,
	rebalanceService interfaces.RebalanceService,
	logger *common.Logger,
) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		holdings := portfolioService.GetHoldings(ctx)
		if holdings.Status != models.StatusSuccess {
			return errorResult("Error: " + holdings.Message), nil
		}
		targets := portfolioService.GetTargetAllocation(ctx)

		symbols := make([]string, 0, len(holdings.Holdings))
		for _, h := range holdings.Holdings {
			symbols = append(symbols, h.Symbol)
		}
		prices := marketService.GetPrices(ctx, symbols)

		recs, err := rebalanceService.GenerateRecommendations(holdings, targets, prices)
		if err != nil {
			logger.Error().Err(err).Msg("Rebalance recommendations failed")
			return errorResult(fmt.Sprintf("Rebalance error: %v", err)), nil
		}
		return jsonResult(recs)
	}
}

// handleTransactionCosts implements the calculate_transaction_costs tool
func handleTransactionCosts(rebalanceService interfaces.RebalanceService, cfg common.RebalanceConfig, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		raw, ok := args["recommendations"]
		if !ok {
			return errorResult("Error: recommendations parameter is required"), nil
		}

		data, err := json.Marshal(raw)
		if err != nil {
			return errorResult(fmt.Sprintf("Error: invalid recommendations: %v", err)), nil
		}
		var recs []models.Recommendation
		if err := json.Unmarshal(data, &recs); err != nil {
			logger.Warn().Err(err).Msg("Malformed recommendations argument")
			return errorResult(fmt.Sprintf("Error: invalid recommendations: %v", err)), nil
		}

		commission := request.GetFloat("commission_per_trade", cfg.CommissionPerTrade)
		spreadBps := request.GetFloat("spread_bps", cfg.SpreadBps)

		return jsonResult(rebalanceService.CalculateTransactionCosts(recs, commission, spreadBps))
	}
}

// Helper functions

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(text),
		},
	}
}

func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult(fmt.Sprintf("Error: failed to encode result: %v", err)), nil
	}
	return textResult(string(data)), nil
}
