//-------------------------------------------------------------------------
//
// retail-etl
//
// Copyright (c) 2025 - 2026, the retail-etl authors
// This software is released under The MIT License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for retail-etl.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/retaildata/retail-etl/internal/config"
	"github.com/retaildata/retail-etl/internal/logging"
	"github.com/retaildata/retail-etl/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	store    string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "retail-etl",
		Short: "Normalize a flat retail export into an analytical SQLite schema",
		Long: `retail-etl ingests a flat transactional retail export (one row per
invoice line, CSV or XLSX) and reshapes it into a normalized star-like
schema (customers, products, orders, order line items) inside a single
SQLite file.

The normalized store answers a fixed menu of analytical queries (revenue
KPIs, monthly trends, top products, cohort retention, RFM ranking) that a
presentation layer can consume without re-deriving the schema.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./retail-etl.yaml)")
	rootCmd.PersistentFlags().StringVar(&store, "db", "",
		"path to the SQLite store file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(etlCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(sampleCmd)
	rootCmd.AddCommand(queriesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if store != "" {
		cfg.Store = store
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var queriesCmd = &cobra.Command{
	Use:   "queries",
	Short: "List available analytical queries",
	Long: `List the fixed menu of analytical queries served by the normalized
store, together with the parameters each one takes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("Available queries:")
		cmd.Println()
		cmd.Println("  kpi              - Revenue, order/customer counts, average line value")
		cmd.Println("  bounds           - Earliest and latest invoice timestamps")
		cmd.Println("  monthly-revenue  - Revenue per month (--start, --end)")
		cmd.Println("  top-products     - Top products by revenue (--start, --end, --top-n)")
		cmd.Println("  cohort-retention - Cohort retention matrix in long form")
		cmd.Println("  rfm              - Recency/frequency/monetary ranking (--top-n)")
		cmd.Println()
		cmd.Println("Dates are inclusive and formatted YYYY-MM-DD.")
	},
}
