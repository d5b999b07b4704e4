package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/cerfaos/analyse/internal/report"
	"github.com/cerfaos/analyse/internal/store"
	"github.com/spf13/cobra"
)

var (
	reportYear  int
	reportMonth int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a report once and print it as JSON",
	Long: `Generate a monthly or annual report from the local database and print
it to stdout as JSON. With --month the report covers that single month;
without it, the whole year including the monthly breakdown.

The database is used as-is; no export API sync happens.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if reportMonth < 0 || reportMonth > 12 {
			return fmt.Errorf("month must be between 1 and 12")
		}

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		st, err := store.Open(ctx, dbPath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer st.Close()

		generator := report.NewGenerator(st, st, st)

		var rep *report.Report
		if reportMonth > 0 {
			rep, err = generator.MonthlyReport(ctx, syncUserID, reportMonth, reportYear)
		} else {
			rep, err = generator.AnnualReport(ctx, syncUserID, reportYear)
		}
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	},
}

func init() {
	reportCmd.Flags().IntVar(&reportYear, "year", time.Now().Year(), "calendar year to report on")
	reportCmd.Flags().IntVar(&reportMonth, "month", 0, "calendar month 1-12 (omit for an annual report)")
}
