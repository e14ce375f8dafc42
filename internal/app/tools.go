package app

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// createGetVersionTool returns the get_version tool definition
func createGetVersionTool() mcp.Tool {
	return mcp.NewTool("get_version",
		mcp.WithDescription("Get the Rebal MCP server version and status. Use this to verify connectivity."),
	)
}

// createGetHoldingsTool returns the get_portfolio_holdings tool definition
func createGetHoldingsTool() mcp.Tool {
	return mcp.NewTool("get_portfolio_holdings",
		mcp.WithDescription("Get current portfolio holdings, cash balance, and total value."),
	)
}

// createGetTargetAllocationTool returns the get_target_allocation tool definition
func createGetTargetAllocationTool() mcp.Tool {
	return mcp.NewTool("get_target_allocation",
		mcp.WithDescription("Get the target allocation percentages per symbol."),
	)
}

// createCalculateDriftTool returns the calculate_allocation_drift tool definition
func createCalculateDriftTool() mcp.Tool {
	return mcp.NewTool("calculate_allocation_drift",
		mcp.WithDescription("Calculate per-symbol drift between current and target allocation, in percentage points and dollars."),
	)
}

// createGetPriceTool returns the get_current_price tool definition
func createGetPriceTool() mcp.Tool {
	return mcp.NewTool("get_current_price",
		mcp.WithDescription("Get the current price for a single symbol."),
		mcp.WithString("symbol",
			mcp.Required(),
			mcp.Description("Ticker symbol (e.g., 'AAPL')"),
		),
	)
}

// createGetPricesTool returns the get_multiple_prices tool definition
func createGetPricesTool() mcp.Tool {
	return mcp.NewTool("get_multiple_prices",
		mcp.WithDescription("Get current prices for multiple symbols in one call."),
		mcp.WithArray("symbols",
			mcp.WithStringItems(),
			mcp.Required(),
			mcp.Description("Ticker symbols to price (e.g., ['AAPL', 'VTI'])"),
		),
	)
}

// createIsMarketOpenTool returns the is_market_open tool definition
func createIsMarketOpenTool() mcp.Tool {
	return mcp.NewTool("is_market_open",
		mcp.WithDescription("Check whether the market is currently open for trading."),
	)
}

// createRebalanceRecommendationsTool returns the generate_rebalance_recommendations tool definition
func createRebalanceRecommendationsTool() mcp.Tool {
	return mcp.NewTool("generate_rebalance_recommendations",
		mcp.WithDescription("Generate prioritized buy/sell recommendations to bring the portfolio back to its target allocation. Uses current holdings, targets, and prices."),
	)
}

// createTransactionCostsTool returns the calculate_transaction_costs tool definition
func createTransactionCostsTool() mcp.Tool {
	return mcp.NewTool("calculate_transaction_costs",
		mcp.WithDescription("Estimate commission and spread costs for a set of rebalance recommendations."),
		mcp.WithArray("recommendations",
			mcp.Required(),
			mcp.Description("Recommendations from generate_rebalance_recommendations"),
		),
		mcp.WithNumber("commission_per_trade",
			mcp.Description("Dollars per trade (default: configured value)"),
		),
		mcp.WithNumber("spread_bps",
			mcp.Description("Bid/ask spread in basis points (default: configured value)"),
		),
	)
}
