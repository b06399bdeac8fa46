package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retaildata/retail-etl/internal/db"
	"github.com/retaildata/retail-etl/internal/etl"
	"github.com/retaildata/retail-etl/internal/logging"
)

var (
	etlSource       string
	etlBatchSize    int
	etlDropExisting bool
	etlForce        bool
)

var etlCmd = &cobra.Command{
	Use:   "etl [source]",
	Short: "Run the normalization pipeline against a source export",
	Long: `Read the flat retail export (CSV or XLSX), clean it, and load it into
the normalized SQLite store. Dimensions (customers, products) accumulate
across loads; facts (orders, order items) are fully replaced.

The whole load is one transaction: a failed load leaves the previously
committed store contents untouched. Re-running against an unchanged
source is idempotent, but a loaded store is not reloaded unless --force
or --drop-existing is given.

Example:
  retail-etl etl Online_Retail.xlsx --db online_retail.db
  retail-etl etl --source export.csv --force`,
	Args: cobra.MaximumNArgs(1),
	RunE: runETL,
}

func init() {
	etlCmd.Flags().StringVar(&etlSource, "source", "",
		"path to the source export (.csv or .xlsx)")
	etlCmd.Flags().IntVar(&etlBatchSize, "batch-size", 0,
		"staging rows per bulk insert statement")
	etlCmd.Flags().BoolVar(&etlDropExisting, "drop-existing", false,
		"drop the normalized schema before loading")
	etlCmd.Flags().BoolVar(&etlForce, "force", false,
		"reload even when the store already holds a prior load")
}

func runETL(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if len(args) > 0 {
		cfg.ETL.Source = args[0]
	}
	if etlSource != "" {
		cfg.ETL.Source = etlSource
	}
	if etlBatchSize > 0 {
		cfg.ETL.BatchSize = etlBatchSize
	}
	if etlDropExisting {
		cfg.ETL.DropExisting = true
	}
	if etlForce {
		cfg.ETL.Force = true
	}

	// Validate configuration
	if err := cfg.ValidateETL(); err != nil {
		return err
	}

	ctx := context.Background()
	handle, err := db.Open(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer handle.Close()

	// A loaded store is not silently reloaded; the caller decides.
	loaded, err := db.MetadataExists(ctx, handle)
	if err != nil {
		return fmt.Errorf("failed to inspect store: %w", err)
	}
	if loaded && !cfg.ETL.Force && !cfg.ETL.DropExisting {
		prior, _ := db.GetMetadataValue(ctx, handle, "source")
		return fmt.Errorf(
			"store %s already holds a load (source: %s); "+
				"use --force to reload or --drop-existing to start over",
			cfg.Store, prior)
	}

	if cfg.ETL.DropExisting {
		logging.Warn().Msg("Dropping existing schema")
		if err := etl.DropSchema(ctx, handle); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		if err := db.DropMetadata(ctx, handle); err != nil {
			logging.Debug().Err(err).Msg("No metadata table to drop")
		}
	}

	logging.Info().
		Str("source", cfg.ETL.Source).
		Str("store", cfg.Store).
		Msg("Starting ETL")

	stats, err := etl.Run(ctx, handle, cfg.ETL.Source, cfg.ETL.BatchSize)
	if err != nil {
		return err
	}

	if err := db.SaveMetadata(ctx, handle, cfg.ETL.Source, stats.OrderItems); err != nil {
		return fmt.Errorf("failed to save metadata: %w", err)
	}

	logging.Info().
		Str("store", cfg.Store).
		Int64("orders", stats.Orders).
		Int64("order_items", stats.OrderItems).
		Msg("ETL complete")

	return nil
}
