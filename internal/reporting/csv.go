package reporting

import (
	"fmt"
	"strings"

	"tradejournal/internal/domain"
)

// RenderCSV renders the trade log as a CSV string. Nullable numeric fields
// render as empty cells, not zeros.
func RenderCSV(trades []*domain.Trade) string {
	var sb strings.Builder

	sb.WriteString("trade_date,symbol,asset_class,trade_type,model,strategy,")
	sb.WriteString("entry_price,exit_price,position_size,pnl,risk_reward\n")

	for _, t := range trades {
		sb.WriteString(fmt.Sprintf("%s,%s,%s,%s,%s,%s,%.6f,%s,%.6f,%s,%s\n",
			t.TradeDate,
			csvEscape(t.Symbol),
			t.AssetClass,
			t.Direction,
			csvEscape(t.Model),
			csvEscape(t.Strategy),
			t.EntryPrice,
			csvOptional(t.ExitPrice),
			t.PositionSize,
			csvOptional(t.PnL),
			csvOptional(t.RiskReward),
		))
	}

	return sb.String()
}

func csvOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%.6f", *v)
}

// csvEscape quotes fields containing separators. Free-text tags like model
// names can contain commas.
func csvEscape(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
