package reporting

import (
	"context"
	"fmt"
	"time"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/storage"
)

// Generator assembles monthly reports from the analytics service and the
// trade log.
type Generator struct {
	analytics *analytics.Service
	trades    storage.TradeStore
	now       func() time.Time // injectable clock for deterministic output
}

// NewGenerator creates a report generator.
func NewGenerator(svc *analytics.Service, trades storage.TradeStore) *Generator {
	return &Generator{
		analytics: svc,
		trades:    trades,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate builds the full report for one user and month.
func (g *Generator) Generate(ctx context.Context, userID string, month domain.Month) (*MonthlyReport, error) {
	if !month.Valid() {
		return nil, fmt.Errorf("invalid month %q: %w", month, storage.ErrInvalidInput)
	}

	filter := domain.TradeFilter{
		DateFrom: fmt.Sprintf("%s-01", month),
		DateTo:   fmt.Sprintf("%s-%02d", month, month.Days()),
	}

	summary, err := g.analytics.Summary(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}

	goal, err := g.analytics.GoalReport(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("goal report: %w", err)
	}

	calendar, err := g.analytics.Calendar(ctx, userID, month)
	if err != nil {
		return nil, fmt.Errorf("calendar: %w", err)
	}

	modelInsights, err := g.analytics.Insights(ctx, userID, filter, analytics.ByModel)
	if err != nil {
		return nil, fmt.Errorf("model insights: %w", err)
	}

	symbols, err := g.analytics.Breakdown(ctx, userID, filter, analytics.BySymbol)
	if err != nil {
		return nil, fmt.Errorf("symbol breakdown: %w", err)
	}

	trades, err := g.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("trades: %w", err)
	}
	// Query returns newest first; the trade log reads oldest first.
	reverse(trades)

	return &MonthlyReport{
		GeneratedAt:     g.now(),
		UserID:          userID,
		Month:           month,
		Summary:         summary,
		Goal:            goal,
		Calendar:        calendar,
		ModelInsights:   modelInsights,
		SymbolBreakdown: symbols,
		Trades:          trades,
	}, nil
}

func reverse(trades []*domain.Trade) {
	for i, j := 0, len(trades)-1; i < j; i, j = i+1, j-1 {
		trades[i], trades[j] = trades[j], trades[i]
	}
}
