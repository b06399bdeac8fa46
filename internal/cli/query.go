package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/retaildata/retail-etl/internal/analytics"
	"github.com/retaildata/retail-etl/internal/db"
)

var (
	queryStart string
	queryEnd   string
	queryTopN  int
)

var queryCmd = &cobra.Command{
	Use:   "query <name>",
	Short: "Run an analytical query against the normalized store",
	Long: `Run one of the fixed menu of analytical queries against a previously
loaded store and print the result table.

Example:
  retail-etl query kpi
  retail-etl query monthly-revenue --start 2010-12-01 --end 2011-12-09
  retail-etl query top-products --start 2010-12-01 --end 2011-12-09 --top-n 20
  retail-etl query rfm --top-n 50

Use 'retail-etl queries' to list the menu.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().StringVar(&queryStart, "start", "",
		"inclusive start date (YYYY-MM-DD) for ranged queries")
	queryCmd.Flags().StringVar(&queryEnd, "end", "",
		"inclusive end date (YYYY-MM-DD) for ranged queries")
	queryCmd.Flags().IntVar(&queryTopN, "top-n", 0,
		"row limit for ranking queries")
}

func runQuery(cmd *cobra.Command, args []string) error {
	name := args[0]

	// Override config with CLI flags
	if queryStart != "" {
		cfg.Query.Start = queryStart
	}
	if queryEnd != "" {
		cfg.Query.End = queryEnd
	}
	if queryTopN > 0 {
		cfg.Query.TopN = queryTopN
	}

	// Validate configuration
	if err := cfg.ValidateQuery(); err != nil {
		return err
	}

	if !db.Exists(cfg.Store) {
		return fmt.Errorf("store %s does not exist; run 'retail-etl etl' first", cfg.Store)
	}

	ctx := context.Background()
	handle, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer handle.Close()

	facade := analytics.New(handle)

	var result analytics.Result
	switch name {
	case "kpi":
		result, err = facade.KPISummary(ctx)
	case "bounds":
		result, err = facade.DateBounds(ctx)
	case "monthly-revenue":
		var start, end time.Time
		if start, end, err = parseRange(); err != nil {
			return err
		}
		result, err = facade.MonthlyRevenue(ctx, start, end)
	case "top-products":
		var start, end time.Time
		if start, end, err = parseRange(); err != nil {
			return err
		}
		result, err = facade.TopProducts(ctx, start, end, cfg.Query.TopN)
	case "cohort-retention":
		result, err = facade.CohortRetention(ctx)
	case "rfm":
		result, err = facade.RFM(ctx, cfg.Query.TopN)
	default:
		return fmt.Errorf("unknown query: %s (available: %s)",
			name, strings.Join(analytics.QueryNames, ", "))
	}
	if err != nil {
		return err
	}

	printResult(cmd, result)
	return nil
}

// parseRange reads the configured date range. Both bounds are required for
// ranged queries; the facade validates their ordering.
func parseRange() (time.Time, time.Time, error) {
	if cfg.Query.Start == "" || cfg.Query.End == "" {
		return time.Time{}, time.Time{},
			fmt.Errorf("--start and --end are required for this query")
	}
	start, err := time.Parse("2006-01-02", cfg.Query.Start)
	if err != nil {
		return time.Time{}, time.Time{},
			fmt.Errorf("invalid start date %q: %w", cfg.Query.Start, err)
	}
	end, err := time.Parse("2006-01-02", cfg.Query.End)
	if err != nil {
		return time.Time{}, time.Time{},
			fmt.Errorf("invalid end date %q: %w", cfg.Query.End, err)
	}
	return start, end, nil
}

func printResult(cmd *cobra.Command, result analytics.Result) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, strings.Join(result.Columns, "\t"))

	for _, row := range result.Rows {
		cells := make([]string, len(result.Columns))
		for i, col := range result.Columns {
			cells[i] = formatValue(row[col])
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}

	if len(result.Rows) == 0 {
		cmd.Println("(no rows)")
	}
}

func formatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case float64:
		return fmt.Sprintf("%.2f", val)
	case []byte:
		return string(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}
