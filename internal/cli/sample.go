package cli

import (
	"github.com/spf13/cobra"

	"github.com/retaildata/retail-etl/internal/datagen"
)

var (
	sampleOut          string
	sampleRows         int
	sampleSeed         uint64
	sampleCancelledPct float64
	sampleDirtyPct     float64
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Generate a synthetic source export for testing",
	Long: `Write a synthetic CSV in the source export layout, including a
configurable fraction of cancellation invoices and dirty rows, so the
pipeline can be exercised without the real dataset.

Example:
  retail-etl sample --rows 20000 --out sample.csv
  retail-etl sample --seed 42 --cancelled-pct 0.05 --dirty-pct 0.1`,
	RunE: runSample,
}

func init() {
	sampleCmd.Flags().StringVar(&sampleOut, "out", "",
		"output path for the generated CSV")
	sampleCmd.Flags().IntVar(&sampleRows, "rows", 0,
		"number of invoice lines to generate")
	sampleCmd.Flags().Uint64Var(&sampleSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	sampleCmd.Flags().Float64Var(&sampleCancelledPct, "cancelled-pct", -1,
		"fraction of lines on a cancellation invoice")
	sampleCmd.Flags().Float64Var(&sampleDirtyPct, "dirty-pct", -1,
		"fraction of lines with a broken field")
}

func runSample(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if sampleOut != "" {
		cfg.Sample.Out = sampleOut
	}
	if sampleRows > 0 {
		cfg.Sample.Rows = sampleRows
	}
	if sampleSeed != 0 {
		cfg.Sample.Seed = sampleSeed
	}
	if sampleCancelledPct >= 0 {
		cfg.Sample.CancelledPct = sampleCancelledPct
	}
	if sampleDirtyPct >= 0 {
		cfg.Sample.DirtyPct = sampleDirtyPct
	}

	// Validate configuration
	if err := cfg.ValidateSample(); err != nil {
		return err
	}

	return datagen.WriteSampleSource(cfg.Sample.Out, datagen.SampleConfig{
		Rows:         cfg.Sample.Rows,
		Seed:         cfg.Sample.Seed,
		CancelledPct: cfg.Sample.CancelledPct,
		DirtyPct:     cfg.Sample.DirtyPct,
	})
}
