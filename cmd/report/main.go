// Package main generates monthly trading reports from the journal database.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"tradejournal/internal/analytics"
	"tradejournal/internal/domain"
	"tradejournal/internal/reporting"
	"tradejournal/internal/storage/postgres"
)

func main() {
	if err := newReportCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newReportCmd() *cobra.Command {
	var (
		userID      string
		month       string
		postgresDSN string
		outputDir   string
	)

	cmd := &cobra.Command{
		Use:           "report",
		Short:         "Generate a monthly trading report (Markdown + CSV)",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()

			if postgresDSN == "" {
				postgresDSN = os.Getenv("POSTGRES_DSN")
			}
			if postgresDSN == "" {
				return fmt.Errorf("--postgres-dsn or POSTGRES_DSN is required")
			}

			m := domain.Month(month)
			if month == "" {
				m = domain.CurrentMonth(time.Now())
			}
			if !m.Valid() {
				return fmt.Errorf("invalid --month %q: expected YYYY-MM", month)
			}

			return generate(cmd, userID, m, postgresDSN, outputDir)
		},
	}

	cmd.Flags().StringVar(&userID, "user", "", "User ID to report on (required)")
	cmd.Flags().StringVar(&month, "month", "", "Report month as YYYY-MM (default: current month)")
	cmd.Flags().StringVar(&postgresDSN, "postgres-dsn", "", "PostgreSQL connection string (default: POSTGRES_DSN env)")
	cmd.Flags().StringVar(&outputDir, "output-dir", "reports", "Directory for generated files")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func generate(cmd *cobra.Command, userID string, month domain.Month, dsn, outputDir string) error {
	ctx := cmd.Context()

	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	trades := postgres.NewTradeStore(pool)
	svc := analytics.NewService(trades, postgres.NewAccountStore(pool), postgres.NewGoalStore(pool))

	report, err := reporting.NewGenerator(svc, trades).Generate(ctx, userID, month)
	if err != nil {
		return fmt.Errorf("generate report: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	mdPath := filepath.Join(outputDir, fmt.Sprintf("REPORT_%s.md", month))
	if err := os.WriteFile(mdPath, []byte(reporting.RenderMarkdown(report)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", mdPath, err)
	}

	csvPath := filepath.Join(outputDir, fmt.Sprintf("TRADES_%s.csv", month))
	if err := os.WriteFile(csvPath, []byte(reporting.RenderCSV(report.Trades)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", csvPath, err)
	}

	fmt.Printf("Report for %s generated:\n", month)
	fmt.Printf("  - %s\n", mdPath)
	fmt.Printf("  - %s\n", csvPath)
	return nil
}
