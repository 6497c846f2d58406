// Package analytics composes the storage layer and the stats reducer into
// the derived views served by the API. Every operation is scoped to an
// explicit user: there is no ambient identity anywhere in this package.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"tradejournal/internal/domain"
	"tradejournal/internal/stats"
	"tradejournal/internal/storage"
)

// Breakdown dimensions accepted by the Breakdown operation.
const (
	BySymbol     = "symbol"
	ByAssetClass = "assetClass"
	ByStrategy   = "strategy"
	ByModel      = "model"
	ByAccount    = "account"
)

// topSymbols caps the symbol breakdown; the chart shows at most this many.
const topSymbols = 10

// Service computes derived analytics views on demand. It holds no state
// beyond its store handles, so concurrent use is safe.
type Service struct {
	trades   storage.TradeStore
	accounts storage.AccountStore
	goals    storage.GoalStore
}

// NewService creates an analytics service over the given stores.
func NewService(trades storage.TradeStore, accounts storage.AccountStore, goals storage.GoalStore) *Service {
	return &Service{trades: trades, accounts: accounts, goals: goals}
}

// Summary computes the headline performance block for the filtered trades.
func (s *Service) Summary(ctx context.Context, userID string, filter domain.TradeFilter) (domain.Summary, error) {
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return domain.Summary{}, fmt.Errorf("fetch trades: %w", err)
	}
	return stats.Summarize(trades), nil
}

// CumulativePnL computes the running P&L curve for the filtered trades.
// The store returns newest-first, so the trades are re-sorted ascending by
// date here before reducing.
func (s *Service) CumulativePnL(ctx context.Context, userID string, filter domain.TradeFilter) ([]domain.CumulativePoint, error) {
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	sort.SliceStable(trades, func(i, j int) bool {
		if trades[i].TradeDate != trades[j].TradeDate {
			return trades[i].TradeDate < trades[j].TradeDate
		}
		return trades[i].ID < trades[j].ID
	})

	return stats.CumulativePnL(trades), nil
}

// Calendar computes the per-day P&L cells for a month. The query is bounded
// to the month's dates; trades outside it would never match a cell anyway.
func (s *Service) Calendar(ctx context.Context, userID string, month domain.Month) ([]domain.CalendarCell, error) {
	if !month.Valid() {
		return nil, storage.ErrInvalidInput
	}

	filter := domain.TradeFilter{
		DateFrom: fmt.Sprintf("%s-01", month),
		DateTo:   fmt.Sprintf("%s-%02d", month, month.Days()),
	}
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}
	return stats.CalendarBuckets(trades, month), nil
}

// Breakdown computes the simple group-by view for one dimension.
func (s *Service) Breakdown(ctx context.Context, userID string, filter domain.TradeFilter, by string) ([]domain.Breakdown, error) {
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	switch by {
	case BySymbol:
		return stats.BySymbol(trades, topSymbols), nil
	case ByAssetClass:
		return stats.ByAssetClass(trades), nil
	case ByStrategy:
		return stats.ByStrategy(trades), nil
	case ByModel:
		return stats.ByModel(trades), nil
	default:
		return nil, storage.ErrInvalidInput
	}
}

// Insights computes the fuller per-group statistics. Grouping by account
// resolves account IDs to display names; trades pointing at a deleted
// account fall under "Unknown".
func (s *Service) Insights(ctx context.Context, userID string, filter domain.TradeFilter, by string) ([]domain.GroupInsight, error) {
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	switch by {
	case ByModel:
		return stats.GroupInsights(trades, func(t *domain.Trade) string { return t.Model }, stats.NoModel), nil
	case ByStrategy:
		return stats.GroupInsights(trades, func(t *domain.Trade) string { return t.Strategy }, stats.NoStrategy), nil
	case ByAccount:
		names, err := s.accountNames(ctx, userID)
		if err != nil {
			return nil, err
		}
		key := func(t *domain.Trade) string {
			if name, ok := names[t.AccountID]; ok {
				return name
			}
			return "Unknown"
		}
		return stats.GroupInsights(trades, key, "Unknown"), nil
	default:
		return nil, storage.ErrInvalidInput
	}
}

// GoalReport computes a month's targets, actuals and progress. A missing
// goal row yields zero targets, which in turn yield zero progress.
func (s *Service) GoalReport(ctx context.Context, userID string, month domain.Month) (domain.GoalReport, error) {
	if !month.Valid() {
		return domain.GoalReport{}, storage.ErrInvalidInput
	}

	var profitTarget, winRateTarget float64
	goal, err := s.goals.GetByMonth(ctx, userID, month)
	switch {
	case err == nil:
		profitTarget = goal.ProfitGoal
		winRateTarget = goal.WinRateGoal
	case errors.Is(err, storage.ErrNotFound):
		// No goal set for the month; report zero targets.
	default:
		return domain.GoalReport{}, fmt.Errorf("fetch goal: %w", err)
	}

	filter := domain.TradeFilter{
		DateFrom: fmt.Sprintf("%s-01", month),
		DateTo:   fmt.Sprintf("%s-%02d", month, month.Days()),
	}
	trades, err := s.trades.Query(ctx, userID, filter, storage.SortByDate)
	if err != nil {
		return domain.GoalReport{}, fmt.Errorf("fetch trades: %w", err)
	}

	perf := stats.MonthPerformance(trades, month)
	return domain.GoalReport{
		Month:           month,
		Performance:     perf,
		ProfitProgress:  stats.GoalProgress(perf.Profit, profitTarget),
		WinRateProgress: stats.GoalProgress(perf.WinRate, winRateTarget),
	}, nil
}

// AccountOverviews returns each account with its derived realized P&L and
// trade count. The advisory CurrentBalance is passed through untouched.
func (s *Service) AccountOverviews(ctx context.Context, userID string) ([]domain.AccountOverview, error) {
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	trades, err := s.trades.Query(ctx, userID, domain.TradeFilter{}, storage.SortByDate)
	if err != nil {
		return nil, fmt.Errorf("fetch trades: %w", err)
	}

	type tally struct {
		pnl   float64
		count int
	}
	byAccount := make(map[string]tally)
	for _, t := range trades {
		tl := byAccount[t.AccountID]
		if t.PnL != nil {
			tl.pnl += *t.PnL
		}
		tl.count++
		byAccount[t.AccountID] = tl
	}

	overviews := make([]domain.AccountOverview, 0, len(accounts))
	for _, a := range accounts {
		tl := byAccount[a.ID]
		overviews = append(overviews, domain.AccountOverview{
			Account:     *a,
			RealizedPnL: tl.pnl,
			TradeCount:  tl.count,
		})
	}
	return overviews, nil
}

// Models returns the distinct model tags available for filtering.
func (s *Service) Models(ctx context.Context, userID string) ([]string, error) {
	models, err := s.trades.DistinctModels(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch models: %w", err)
	}
	return models, nil
}

func (s *Service) accountNames(ctx context.Context, userID string) (map[string]string, error) {
	accounts, err := s.accounts.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	names := make(map[string]string, len(accounts))
	for _, a := range accounts {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			name = a.ID
		}
		names[a.ID] = name
	}
	return names, nil
}
