// Package market provides mocked price quotes and the market-open clock.
package market

import (
	"context"
	"time"

	"github.com/bobmcallan/rebal/internal/common"
	"github.com/bobmcallan/rebal/internal/interfaces"
	"github.com/bobmcallan/rebal/internal/models"
)

// FallbackPrice is returned for symbols absent from the mock table. It is a
// fixed, documented value so callers see deterministic (if approximate) data
// instead of an error.
const FallbackPrice = 100.0

// mockPrices is the fixed lookup table standing in for a real feed.
var mockPrices = map[string]float64{
	"AAPL":  178.50,
	"GOOGL": 142.30,
	"MSFT":  378.90,
	"VTI":   245.60,
	"BND":   72.30,
}

// Regular trading session bounds, minutes from midnight in the market
// timezone: 09:30 inclusive to 16:00 exclusive.
const (
	sessionOpenMinute  = 9*60 + 30
	sessionCloseMinute = 16 * 60
)

// Service implements MarketService against the mock price table.
type Service struct {
	location *time.Location
	logger   *common.Logger
	now      func() time.Time // injectable clock for testing
}

// NewService creates a market service using the configured market timezone.
// An unknown timezone falls back to a fixed ET offset so the clock still
// works in minimal containers without tzdata.
func NewService(cfg common.MarketConfig, logger *common.Logger) *Service {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn().Str("timezone", cfg.Timezone).Msg("Unknown market timezone, using fixed ET offset")
		loc = time.FixedZone("ET", -5*60*60)
	}
	return &Service{
		location: loc,
		logger:   logger,
		now:      time.Now,
	}
}

// GetPrice returns a quote for the symbol from the mock table, or the fixed
// fallback price for unknown symbols.
func (s *Service) GetPrice(_ context.Context, symbol string) *models.Quote {
	price, ok := mockPrices[symbol]
	if !ok {
		price = FallbackPrice
	}
	return &models.Quote{
		Symbol:    symbol,
		Price:     price,
		Timestamp: s.now().Format(time.RFC3339),
		Source:    "mock_data",
	}
}

// GetPrices builds a symbol→price mapping by repeated single lookups.
// This is intentionally not a hot path; no batching is done.
func (s *Service) GetPrices(ctx context.Context, symbols []string) map[string]float64 {
	prices := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		prices[symbol] = s.GetPrice(ctx, symbol).Price
	}
	return prices
}

// IsMarketOpen reports whether the market is trading: weekdays, 09:30 to
// 16:00 in the market timezone. No holiday calendar is consulted.
func (s *Service) IsMarketOpen(_ context.Context) *models.MarketStatus {
	now := s.now().In(s.location)

	weekday := now.Weekday()
	isWeekday := weekday != time.Saturday && weekday != time.Sunday

	hour, min, _ := now.Clock()
	minuteOfDay := hour*60 + min
	inSession := minuteOfDay >= sessionOpenMinute && minuteOfDay < sessionCloseMinute

	nextOpen := "Today 9:30 AM ET"
	if !isWeekday {
		nextOpen = "Next business day 9:30 AM ET"
	}

	return &models.MarketStatus{
		IsOpen:      isWeekday && inSession,
		NextOpen:    nextOpen,
		CurrentTime: now.Format(time.RFC3339),
	}
}

// Ensure Service implements MarketService
var _ interfaces.MarketService = (*Service)(nil)
