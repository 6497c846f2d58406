package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/storage/memory"
)

func ptr(v float64) *float64 { return &v }

func seedGenerator(t *testing.T) *Generator {
	t.Helper()
	ctx := context.Background()

	trades := memory.NewTradeStore()
	accounts := memory.NewAccountStore()
	goals := memory.NewGoalStore()

	seed := []*domain.Trade{
		{ID: "t1", UserID: "user-a", AccountID: "acc-1", Symbol: "ES", AssetClass: domain.AssetClassFutures, Direction: domain.DirectionLong, EntryPrice: 5000, Model: "breakout", TradeDate: "2024-03-01", PnL: ptr(100)},
		{ID: "t2", UserID: "user-a", AccountID: "acc-1", Symbol: "NQ", AssetClass: domain.AssetClassFutures, Direction: domain.DirectionShort, EntryPrice: 18000, Model: "breakout", TradeDate: "2024-03-04", PnL: ptr(-40)},
		{ID: "t3", UserID: "user-a", AccountID: "acc-1", Symbol: "ES", AssetClass: domain.AssetClassFutures, Direction: domain.DirectionLong, EntryPrice: 5100, TradeDate: "2024-03-04"},
		// Outside the report month.
		{ID: "t4", UserID: "user-a", AccountID: "acc-1", Symbol: "ES", AssetClass: domain.AssetClassFutures, Direction: domain.DirectionLong, EntryPrice: 4900, TradeDate: "2024-02-28", PnL: ptr(999)},
		// Another user.
		{ID: "t5", UserID: "user-b", AccountID: "acc-2", Symbol: "ES", AssetClass: domain.AssetClassFutures, Direction: domain.DirectionLong, EntryPrice: 4950, TradeDate: "2024-03-02", PnL: ptr(500)},
	}
	for _, tr := range seed {
		if err := trades.Insert(ctx, tr); err != nil {
			t.Fatalf("seed trade %s: %v", tr.ID, err)
		}
	}

	if err := goals.Upsert(ctx, &domain.Goal{ID: "g1", UserID: "user-a", Month: "2024-03", ProfitGoal: 120, WinRateGoal: 50}); err != nil {
		t.Fatalf("seed goal: %v", err)
	}

	svc := analytics.NewService(trades, accounts, goals)
	return NewGenerator(svc, trades).WithClock(func() time.Time {
		return time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	})
}

func TestGenerate(t *testing.T) {
	gen := seedGenerator(t)

	report, err := gen.Generate(context.Background(), "user-a", "2024-03")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Summary.NetPnL != 60 {
		t.Errorf("net pnl = %v, want 60", report.Summary.NetPnL)
	}
	if report.Summary.TotalTrades != 3 {
		t.Errorf("total trades = %d, want 3 (month-bounded, own trades only)", report.Summary.TotalTrades)
	}
	if len(report.Calendar) != 31 {
		t.Errorf("calendar cells = %d, want 31", len(report.Calendar))
	}

	traded := report.TradedDays()
	if len(traded) != 2 {
		t.Fatalf("traded days = %d, want 2", len(traded))
	}
	if traded[0].Day != 1 || traded[1].Day != 4 {
		t.Errorf("traded days = %d, %d, want 1, 4", traded[0].Day, traded[1].Day)
	}
	// Day 4 nets the losing trade plus the open one coerced to zero.
	if traded[1].PnL != -40 {
		t.Errorf("day 4 pnl = %v, want -40", traded[1].PnL)
	}

	if len(report.Trades) != 3 {
		t.Fatalf("trade log = %d entries, want 3", len(report.Trades))
	}
	if report.Trades[0].TradeDate != "2024-03-01" {
		t.Errorf("trade log starts at %s, want oldest first", report.Trades[0].TradeDate)
	}
}

func TestGenerateGoalProgress(t *testing.T) {
	gen := seedGenerator(t)

	report, err := gen.Generate(context.Background(), "user-a", "2024-03")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if report.Goal.ProfitProgress.Target != 120 {
		t.Errorf("profit target = %v, want 120", report.Goal.ProfitProgress.Target)
	}
	if want := 50.0; report.Goal.ProfitProgress.Progress != want {
		t.Errorf("profit progress = %v, want %v", report.Goal.ProfitProgress.Progress, want)
	}
	if report.Goal.ProfitProgress.Achieved {
		t.Error("profit goal should not be achieved at 50%")
	}
}

func TestGenerateInvalidMonth(t *testing.T) {
	gen := seedGenerator(t)

	_, err := gen.Generate(context.Background(), "user-a", "March 2024")
	if err == nil {
		t.Fatal("expected error for invalid month")
	}
}

func TestRenderMarkdown(t *testing.T) {
	gen := seedGenerator(t)

	report, err := gen.Generate(context.Background(), "user-a", "2024-03")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)

	for _, want := range []string{
		"# Trading Report 2024-03",
		"Generated: 2024-04-01T09:00:00Z",
		"| Net P&L | 60.00 |",
		"| Profit | 60.00 | 120.00 | 50.0% | IN PROGRESS |",
		"## Trade Log",
		"| 2024-03-01 | ES | long | breakout | 5000.00 | - | 100.00 |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdownEmptyMonth(t *testing.T) {
	gen := seedGenerator(t)

	report, err := gen.Generate(context.Background(), "user-a", "2024-06")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	md := RenderMarkdown(report)
	if !strings.Contains(md, "No trades this month.") {
		t.Error("markdown should note the empty month")
	}
	if !strings.Contains(md, "No goal set for this month.") {
		t.Error("markdown should note the missing goal")
	}
}

func TestRenderCSV(t *testing.T) {
	gen := seedGenerator(t)

	report, err := gen.Generate(context.Background(), "user-a", "2024-03")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	out := RenderCSV(report.Trades)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("csv lines = %d, want header + 3 rows", len(lines))
	}
	if !strings.HasPrefix(lines[0], "trade_date,symbol,") {
		t.Errorf("unexpected header: %s", lines[0])
	}
	// The open trade's nullable cells stay empty.
	if !strings.Contains(lines[3], ",,") {
		t.Errorf("open trade row should have empty cells: %s", lines[3])
	}
}
