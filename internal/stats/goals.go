package stats

import (
	"strings"

	"tradejournal/internal/domain"
)

// GoalProgress relates an actual value to a target. A target of zero (or
// less) yields 0 progress rather than a division by zero; the raw
// percentage is kept unclamped so "achieved" can use the true value.
func GoalProgress(actual, target float64) domain.GoalProgress {
	progress := 0.0
	if target > 0 {
		progress = actual / target * 100
	}
	return domain.GoalProgress{
		Actual:   actual,
		Target:   target,
		Progress: progress,
		Achieved: progress >= 100,
	}
}

// MonthPerformance reduces the trades belonging to the given month (date
// string prefix match) into the actuals used for goal tracking. Missing P&L
// coerces to zero here; the win rate uses the month's total trade count as
// the denominator, consistent with Summarize.
func MonthPerformance(trades []*domain.Trade, month domain.Month) domain.MonthlyPerformance {
	perf := domain.MonthlyPerformance{DaysInMonth: month.Days()}

	wins := 0
	daysTraded := make(map[string]struct{})
	for _, t := range trades {
		if t == nil || !strings.HasPrefix(t.TradeDate, string(month)) {
			continue
		}
		perf.TotalTrades++
		pnl := pnlOrZero(t)
		perf.Profit += pnl
		if pnl > 0 {
			wins++
		}
		daysTraded[t.TradeDate] = struct{}{}
	}

	if perf.TotalTrades > 0 {
		perf.WinRate = float64(wins) / float64(perf.TotalTrades) * 100
	}
	perf.DaysTraded = len(daysTraded)
	return perf
}
