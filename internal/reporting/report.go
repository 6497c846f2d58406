package reporting

import (
	"fmt"
	"time"

	"tradejournal/internal/domain"
)

// MonthlyReport is a self-contained review of one user's trading month,
// rendered to Markdown for reading and CSV for spreadsheets.
type MonthlyReport struct {
	GeneratedAt time.Time
	UserID      string
	Month       domain.Month

	// Summary covers only the report month.
	Summary domain.Summary

	// Goal relates the month's actuals to its targets. Zero targets mean
	// no goal was set.
	Goal domain.GoalReport

	// Calendar has one cell per day of the month, traded or not.
	Calendar []domain.CalendarCell

	// ModelInsights breaks the month down per trading model.
	ModelInsights []domain.GroupInsight

	// SymbolBreakdown is the simple per-symbol aggregate.
	SymbolBreakdown []domain.Breakdown

	// Trades is the full trade log for the month, oldest first.
	Trades []*domain.Trade
}

// TradedDays returns the calendar cells for days with at least one trade.
// A day that netted exactly zero still counts as traded.
func (r *MonthlyReport) TradedDays() []domain.CalendarCell {
	traded := make(map[string]struct{})
	for _, t := range r.Trades {
		traded[t.TradeDate] = struct{}{}
	}

	var days []domain.CalendarCell
	for _, cell := range r.Calendar {
		date := fmt.Sprintf("%s-%02d", r.Month, cell.Day)
		if _, ok := traded[date]; ok {
			days = append(days, cell)
		}
	}
	return days
}
