package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders the report as a Markdown string.
func RenderMarkdown(r *MonthlyReport) string {
	var sb strings.Builder

	// Header
	sb.WriteString(fmt.Sprintf("# Trading Report %s\n\n", r.Month))
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("User: %s\n\n", r.UserID))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Net P&L | %.2f |\n", r.Summary.NetPnL))
	sb.WriteString(fmt.Sprintf("| Total Trades | %d |\n", r.Summary.TotalTrades))
	sb.WriteString(fmt.Sprintf("| Wins | %d |\n", r.Summary.Wins))
	sb.WriteString(fmt.Sprintf("| Losses | %d |\n", r.Summary.Losses))
	sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% |\n", r.Summary.WinRate))
	sb.WriteString(fmt.Sprintf("| Avg Risk/Reward | %.2f |\n", r.Summary.AvgRiskReward))
	sb.WriteString("\n")

	// Goal progress
	sb.WriteString("## Goal Progress\n\n")
	if r.Goal.ProfitProgress.Target > 0 || r.Goal.WinRateProgress.Target > 0 {
		sb.WriteString("| Goal | Actual | Target | Progress | Status |\n")
		sb.WriteString("|------|--------|--------|----------|--------|\n")
		sb.WriteString(fmt.Sprintf("| Profit | %.2f | %.2f | %.1f%% | %s |\n",
			r.Goal.ProfitProgress.Actual, r.Goal.ProfitProgress.Target,
			r.Goal.ProfitProgress.Clamped(), achievedLabel(r.Goal.ProfitProgress.Achieved)))
		sb.WriteString(fmt.Sprintf("| Win Rate | %.2f%% | %.2f%% | %.1f%% | %s |\n",
			r.Goal.WinRateProgress.Actual, r.Goal.WinRateProgress.Target,
			r.Goal.WinRateProgress.Clamped(), achievedLabel(r.Goal.WinRateProgress.Achieved)))
	} else {
		sb.WriteString("No goal set for this month.\n")
	}
	sb.WriteString("\n")

	// Traded days
	sb.WriteString("## Traded Days\n\n")
	traded := r.TradedDays()
	if len(traded) > 0 {
		sb.WriteString("| Day | Weekday | P&L | Result |\n")
		sb.WriteString("|-----|---------|-----|--------|\n")
		for _, cell := range traded {
			sb.WriteString(fmt.Sprintf("| %d | %s | %.2f | %s |\n",
				cell.Day, cell.Weekday, cell.PnL, cell.Category))
		}
	} else {
		sb.WriteString("No trades this month.\n")
	}
	sb.WriteString("\n")

	// Per-model statistics
	sb.WriteString("## Model Performance\n\n")
	if len(r.ModelInsights) > 0 {
		sb.WriteString("| Model | Trades | Wins | Losses | WinRate | Total P&L | Avg P&L | Best | Worst |\n")
		sb.WriteString("|-------|--------|------|--------|---------|-----------|---------|------|-------|\n")
		for _, m := range r.ModelInsights {
			sb.WriteString(fmt.Sprintf("| %s | %d | %d | %d | %.2f%% | %.2f | %.2f | %.2f | %.2f |\n",
				m.Key, m.TotalTrades, m.Wins, m.Losses, m.WinRate,
				m.TotalPnL, m.AvgPnL, m.BestTrade, m.WorstTrade))
		}
	} else {
		sb.WriteString("No model statistics available.\n")
	}
	sb.WriteString("\n")

	// Per-symbol aggregates
	sb.WriteString("## Symbols\n\n")
	if len(r.SymbolBreakdown) > 0 {
		sb.WriteString("| Symbol | Trades | P&L |\n")
		sb.WriteString("|--------|--------|-----|\n")
		for _, b := range r.SymbolBreakdown {
			sb.WriteString(fmt.Sprintf("| %s | %d | %.2f |\n", b.Key, b.Trades, b.PnL))
		}
	} else {
		sb.WriteString("No symbol statistics available.\n")
	}
	sb.WriteString("\n")

	// Trade log
	sb.WriteString("## Trade Log\n\n")
	if len(r.Trades) > 0 {
		sb.WriteString("| Date | Symbol | Side | Model | Entry | Exit | P&L |\n")
		sb.WriteString("|------|--------|------|-------|-------|------|-----|\n")
		for _, t := range r.Trades {
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f | %s | %s |\n",
				t.TradeDate, t.Symbol, t.Direction, orDash(t.Model),
				t.EntryPrice, fmtOptional(t.ExitPrice), fmtOptional(t.PnL)))
		}
	} else {
		sb.WriteString("No trades recorded.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func achievedLabel(achieved bool) string {
	if achieved {
		return "ACHIEVED"
	}
	return "IN PROGRESS"
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// fmtOptional formats a nullable number; nil renders as a dash, which is
// how an open trade shows up in the log.
func fmtOptional(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.2f", *v)
}
