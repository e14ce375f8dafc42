// Package app wires configuration, storage, clients, and services into the
// shared core used by cmd/rebal-server.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/rebal/internal/agent"
	"github.com/bobmcallan/rebal/internal/clients/gemini"
	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/services/market"
	"github.com/bobmcallan/rebal/internal/services/portfolio"
	"github.com/bobmcallan/rebal/internal/services/rebalance"
	"github.com/bobmcallan/rebal/internal/storage/portfoliofs"
	"github.com/bobmcallan/rebal/internal/storage/sessiondb"
)

// App holds all initialized services, clients, and the MCP server.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	PortfolioStore   interfaces.PortfolioStore
	SessionStore     interfaces.SessionStore
	ChatClient       interfaces.ChatClient
	PortfolioService interfaces.PortfolioService
	MarketService    interfaces.MarketService
	RebalanceService interfaces.RebalanceService
	Registry         *agent.Registry
	Orchestrator     interfaces.Orchestrator
	MCPServer        *server.MCPServer
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, services, and the MCP server.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	// Load configuration - provided path, REBAL_CONFIG, binary dir, then dev fallback
	if configPath == "" {
		configPath = os.Getenv("REBAL_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "rebal.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/rebal.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.PortfolioPath != "" && !filepath.IsAbs(config.Storage.PortfolioPath) {
		config.Storage.PortfolioPath = filepath.Join(binDir, config.Storage.PortfolioPath)
	}
	if config.Storage.SessionsPath != "" && !filepath.IsAbs(config.Storage.SessionsPath) {
		config.Storage.SessionsPath = filepath.Join(binDir, config.Storage.SessionsPath)
	}

	logger := common.NewLogger(config.Logging.Level)

	portfolioStore := portfoliofs.NewStore(logger, config.Storage.PortfolioPath)

	sessionStore, err := sessiondb.NewStore(logger, config.Storage.SessionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	// Resolve the Gemini API key; chat is degraded without it but the
	// portfolio endpoints still work.
	ctx := context.Background()
	var chatClient interfaces.ChatClient
	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		logger.Warn().Msg("Gemini API key not configured - chat will be unavailable")
	} else {
		client, err := gemini.NewClient(ctx, geminiKey,
			gemini.WithLogger(logger),
			gemini.WithModel(config.Clients.Gemini.Model),
			gemini.WithRateLimit(float64(config.Clients.Gemini.RateLimit)),
		)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Gemini client")
		} else {
			chatClient = client
		}
	}

	// Initialize services
	portfolioService := portfolio.NewService(portfolioStore, logger)
	marketService := market.NewService(config.Market, logger)
	rebalanceService := rebalance.NewService(config.Rebalance, logger)

	registry := agent.NewRegistry(portfolioService, marketService, rebalanceService, config.Rebalance, logger)

	var orchestrator interfaces.Orchestrator
	if chatClient != nil {
		orchestrator = agent.NewOrchestrator(chatClient, registry, config.Agent, logger)
	}

	mcpServer := server.NewMCPServer(
		"rebal",
		common.GetVersion(),
		server.WithToolCapabilities(true),
	)

	a := &App{
		Config:           config,
		Logger:           logger,
		PortfolioStore:   portfolioStore,
		SessionStore:     sessionStore,
		ChatClient:       chatClient,
		PortfolioService: portfolioService,
		MarketService:    marketService,
		RebalanceService: rebalanceService,
		Registry:         registry,
		Orchestrator:     orchestrator,
		MCPServer:        mcpServer,
		StartupTime:      startupStart,
	}

	a.registerTools()

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
func (a *App) Close() {
	if a.SessionStore != nil {
		if err := a.SessionStore.Close(); err != nil {
			a.Logger.Error().Err(err).Msg("Failed to close session store")
		}
		a.SessionStore = nil
	}
}

// registerTools registers all MCP tools on the App's MCPServer.
func (a *App) registerTools() {
	s := a.MCPServer
	logger := a.Logger

	s.AddTool(createGetVersionTool(), handleGetVersion())
	s.AddTool(createGetHoldingsTool(), handleGetHoldings(a.PortfolioService))
	s.AddTool(createGetTargetAllocationTool(), handleGetTargetAllocation(a.PortfolioService))
	s.AddTool(createCalculateDriftTool(), handleCalculateDrift(a.PortfolioService))
	s.AddTool(createGetPriceTool(), handleGetPrice(a.MarketService))
	s.AddTool(createGetPricesTool(), handleGetPrices(a.MarketService))
	s.AddTool(createIsMarketOpenTool(), handleIsMarketOpen(a.MarketService))
	s.AddTool(createRebalanceRecommendationsTool(), handleRebalanceRecommendations(a.PortfolioService, a.MarketService, a.RebalanceService, logger))
	s.AddTool(createTransactionCostsTool(), handleTransactionCosts(a.RebalanceService, a.Config.Rebalance, logger))
}
