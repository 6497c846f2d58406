package stats

import (
	"sort"

	"tradejournal/internal/domain"
)

// KeyFunc extracts the grouping key from a trade. Return "" for trades
// missing the key; GroupBy buckets those under the sentinel label so no
// trade silently drops out of the totals.
type KeyFunc func(*domain.Trade) string

// Sentinel labels for trades missing a grouping tag.
const (
	NoStrategy = "No Strategy"
	NoModel    = "No Model"
)

// GroupBy partitions trades by key and sums coerced P&L per group, sorted
// descending by that sum. Groups with equal P&L keep first-seen order.
func GroupBy(trades []*domain.Trade, key KeyFunc, sentinel string) []domain.Breakdown {
	groups := group(trades, key, sentinel)
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].PnL > groups[j].PnL
	})
	return groups
}

// group partitions without sorting, preserving first-seen key order.
func group(trades []*domain.Trade, key KeyFunc, sentinel string) []domain.Breakdown {
	index := make(map[string]int)
	var groups []domain.Breakdown
	for _, t := range trades {
		if t == nil {
			continue
		}
		k := key(t)
		if k == "" {
			k = sentinel
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, domain.Breakdown{Key: k})
		}
		groups[i].PnL += pnlOrZero(t)
		groups[i].Trades++
	}
	return groups
}

// BySymbol aggregates per symbol, descending by P&L. When topN > 0 only the
// top topN groups are kept (the symbol chart shows at most 10).
func BySymbol(trades []*domain.Trade, topN int) []domain.Breakdown {
	groups := GroupBy(trades, func(t *domain.Trade) string { return t.Symbol }, "")
	if topN > 0 && len(groups) > topN {
		groups = groups[:topN]
	}
	return groups
}

// ByAssetClass aggregates per asset class in first-seen order; the consumer
// renders it as a distribution, not a ranking.
func ByAssetClass(trades []*domain.Trade) []domain.Breakdown {
	return group(trades, func(t *domain.Trade) string { return string(t.AssetClass) }, "")
}

// ByStrategy aggregates per strategy tag, untagged trades under NoStrategy.
func ByStrategy(trades []*domain.Trade) []domain.Breakdown {
	return GroupBy(trades, func(t *domain.Trade) string { return t.Strategy }, NoStrategy)
}

// ByModel aggregates per model tag, untagged trades under NoModel.
func ByModel(trades []*domain.Trade) []domain.Breakdown {
	return GroupBy(trades, func(t *domain.Trade) string { return t.Model }, NoModel)
}

// GroupInsights computes the fuller per-group shape used by the insights
// view, sorted descending by total P&L.
//
// Wins/losses compare the coerced P&L against zero, so a trade with no
// recorded P&L counts toward neither. Best/worst consider only the non-zero
// subset; a group with none reports 0 for both.
func GroupInsights(trades []*domain.Trade, key KeyFunc, sentinel string) []domain.GroupInsight {
	index := make(map[string]int)
	var groups []domain.GroupInsight
	nonzero := make(map[string]bool)

	for _, t := range trades {
		if t == nil {
			continue
		}
		k := key(t)
		if k == "" {
			k = sentinel
		}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, domain.GroupInsight{Key: k})
		}
		g := &groups[i]

		pnl := pnlOrZero(t)
		g.TotalTrades++
		g.TotalPnL += pnl
		switch {
		case pnl > 0:
			g.Wins++
		case pnl < 0:
			g.Losses++
		}
		if pnl != 0 {
			if !nonzero[k] || pnl > g.BestTrade {
				g.BestTrade = pnl
			}
			if !nonzero[k] || pnl < g.WorstTrade {
				g.WorstTrade = pnl
			}
			nonzero[k] = true
		}
	}

	for i := range groups {
		g := &groups[i]
		if g.TotalTrades > 0 {
			g.WinRate = float64(g.Wins) / float64(g.TotalTrades) * 100
			g.AvgPnL = g.TotalPnL / float64(g.TotalTrades)
		}
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].TotalPnL > groups[j].TotalPnL
	})
	return groups
}
