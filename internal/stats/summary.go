// Package stats reduces trade collections into derived performance
// view-models. Every function is pure and total: no side effects, no
// retained state between calls, and a malformed record never aborts
// aggregation over the rest of the collection.
package stats

import (
	"time"

	"tradejournal/internal/domain"
)

// Summarize computes the headline performance block.
//
// Nil P&L is EXCLUDED from the net sum and from the win/loss counts (not
// coerced to zero — contrast with CalendarBuckets). A recorded P&L of
// exactly 0 counts toward neither wins nor losses. The win-rate denominator
// is the total trade count, including trades with no recorded P&L.
func Summarize(trades []*domain.Trade) domain.Summary {
	s := domain.Summary{TotalTrades: len(trades)}

	rrSum := 0.0
	rrCount := 0
	for _, t := range trades {
		if t == nil {
			continue
		}
		if t.PnL != nil {
			s.NetPnL += *t.PnL
			switch {
			case *t.PnL > 0:
				s.Wins++
			case *t.PnL < 0:
				s.Losses++
			}
		}
		if t.RiskReward != nil {
			rrSum += *t.RiskReward
			rrCount++
		}
	}

	if s.TotalTrades > 0 {
		s.WinRate = float64(s.Wins) / float64(s.TotalTrades) * 100
	}
	if rrCount > 0 {
		s.AvgRiskReward = rrSum / float64(rrCount)
	}
	return s
}

// CumulativePnL builds the running P&L curve, one point per trade with a
// recorded P&L. Trades without one are skipped entirely: they produce no
// point and do not reset the running sum. The input order is preserved;
// sorting ascending by trade date is the caller's responsibility.
func CumulativePnL(trades []*domain.Trade) []domain.CumulativePoint {
	var points []domain.CumulativePoint
	cumulative := 0.0
	for _, t := range trades {
		if t == nil || t.PnL == nil {
			continue
		}
		cumulative += *t.PnL
		points = append(points, domain.CumulativePoint{
			Label:      dateLabel(t.TradeDate),
			Cumulative: cumulative,
		})
	}
	return points
}

// dateLabel renders a trade date as a short chart label ("Jan 02").
// Unparseable dates fall back to the raw string.
func dateLabel(date string) string {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}
	return d.Format("Jan 02")
}

// pnlOrZero coerces a missing P&L to zero. Only the operations documented
// as zero-coercing (calendar, group-by, monthly performance) use this.
func pnlOrZero(t *domain.Trade) float64 {
	if t == nil || t.PnL == nil {
		return 0
	}
	return *t.PnL
}
