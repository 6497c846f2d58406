package domain

// Derived view-models produced by the stats reducer. Field names are stable:
// they are consumed directly by presentation.

// Summary is the headline performance block for a trade collection.
//
// WinRate uses the TOTAL trade count as the denominator, not just trades
// with a recorded P&L. Trades with nil or zero P&L therefore drag the win
// rate down without counting as losses. Deliberate policy; do not "fix".
type Summary struct {
	NetPnL        float64 `json:"netPnL"`
	WinRate       float64 `json:"winRate"`
	AvgRiskReward float64 `json:"avgRiskReward"`
	TotalTrades   int     `json:"totalTrades"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
}

// CumulativePoint is one step of the running P&L curve.
type CumulativePoint struct {
	Label      string  `json:"label"`
	Cumulative float64 `json:"cumulative"`
}

// CellCategory classifies a calendar day by the strict sign of its P&L.
type CellCategory string

const (
	CellPositive CellCategory = "positive"
	CellNegative CellCategory = "negative"
	CellNeutral  CellCategory = "neutral"
)

// CalendarCell is one day of the monthly P&L calendar. Every day of the
// month gets a cell, traded or not.
type CalendarCell struct {
	Day      int          `json:"day"`
	Weekday  string       `json:"weekday"`
	PnL      float64      `json:"pnl"`
	Category CellCategory `json:"category"`
}

// Breakdown is a per-group aggregate for the simple group-by views
// (symbol, asset class, strategy, model).
type Breakdown struct {
	Key    string  `json:"key"`
	PnL    float64 `json:"pnl"`
	Trades int     `json:"trades"`
}

// GroupInsight is the fuller per-group shape used by the insights view.
// BestTrade and WorstTrade consider only trades whose coerced P&L is
// non-zero; a group with no such trades reports 0 for both.
type GroupInsight struct {
	Key         string  `json:"key"`
	TotalTrades int     `json:"totalTrades"`
	Wins        int     `json:"wins"`
	Losses      int     `json:"losses"`
	WinRate     float64 `json:"winRate"`
	TotalPnL    float64 `json:"totalPnL"`
	AvgPnL      float64 `json:"avgPnL"`
	BestTrade   float64 `json:"bestTrade"`
	WorstTrade  float64 `json:"worstTrade"`
}

// GoalProgress relates an actual value to a target. Progress is the raw,
// unclamped percentage; Achieved uses the unclamped value.
type GoalProgress struct {
	Actual   float64 `json:"actual"`
	Target   float64 `json:"target"`
	Progress float64 `json:"progress"`
	Achieved bool    `json:"achieved"`
}

// Clamped caps progress at 100 for display.
func (g GoalProgress) Clamped() float64 {
	if g.Progress > 100 {
		return 100
	}
	return g.Progress
}

// MonthlyPerformance is the actuals side of goal tracking for one month.
type MonthlyPerformance struct {
	Profit      float64 `json:"profit"`
	WinRate     float64 `json:"winRate"`
	TotalTrades int     `json:"totalTrades"`
	DaysTraded  int     `json:"daysTraded"`
	DaysInMonth int     `json:"daysInMonth"`
}

// GoalReport combines a month's targets, actuals and progress.
type GoalReport struct {
	Month           Month              `json:"month"`
	Performance     MonthlyPerformance `json:"performance"`
	ProfitProgress  GoalProgress       `json:"profitProgress"`
	WinRateProgress GoalProgress       `json:"winRateProgress"`
}

// AccountOverview is an account plus its derived trade statistics. The
// realized P&L is computed from trades, independent of the advisory
// CurrentBalance on the account record.
type AccountOverview struct {
	Account     Account `json:"account"`
	RealizedPnL float64 `json:"realizedPnL"`
	TradeCount  int     `json:"tradeCount"`
}
