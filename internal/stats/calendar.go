package stats

import (
	"fmt"

	"tradejournal/internal/domain"
)

// CalendarBuckets produces one cell per calendar day of the target month.
// Day matching is exact string equality on the YYYY-MM-DD trade date; trades
// outside the month simply never match a cell. Missing P&L counts as zero
// here (unlike Summarize, which excludes it) — both behaviors are
// load-bearing for the displayed totals and must not be unified.
func CalendarBuckets(trades []*domain.Trade, month domain.Month) []domain.CalendarCell {
	days := month.Days()
	if days == 0 {
		return nil
	}

	daily := make(map[string]float64)
	for _, t := range trades {
		if t == nil {
			continue
		}
		daily[t.TradeDate] += pnlOrZero(t)
	}

	first := month.Time()
	cells := make([]domain.CalendarCell, 0, days)
	for day := 1; day <= days; day++ {
		date := fmt.Sprintf("%s-%02d", month, day)
		pnl := daily[date]
		cells = append(cells, domain.CalendarCell{
			Day:      day,
			Weekday:  first.AddDate(0, 0, day-1).Format("Mon"),
			PnL:      pnl,
			Category: categorize(pnl),
		})
	}
	return cells
}

// categorize tags a cell by the strict sign of its summed P&L.
func categorize(pnl float64) domain.CellCategory {
	switch {
	case pnl > 0:
		return domain.CellPositive
	case pnl < 0:
		return domain.CellNegative
	default:
		return domain.CellNeutral
	}
}
