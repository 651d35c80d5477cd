package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/engine"
	"github.com/rshade/carbonscope/internal/engine/batch"
	"github.com/rshade/carbonscope/internal/logging"
	"github.com/rshade/carbonscope/internal/report"
)

// EstimateBatchParams holds the flags of the estimate batch command.
type EstimateBatchParams struct {
	File        string
	Concurrency int
	BatchSize   int
	Strict      bool
	Output      OutputFlags
}

// NewEstimateBatchCmd creates the "estimate batch" subcommand.
func NewEstimateBatchCmd(threshold *ThresholdFlags) *cobra.Command {
	var params EstimateBatchParams

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Estimate every scenario in a YAML or JSON file",
		Long: `Estimate many scenarios at once. The file lists scenarios under a top-level
"scenarios" key; each has a name, region, mode and a quick or detail block
using the same field names as the JSON API:

  scenarios:
    - name: taipei-office
      region: TW
      mode: quick
      quick: {monthly_bill: 5000, price_per_kwh: 4.4, car_count: 5, motorcycle_count: 10}

Scenarios without a region use calculator.default_region. A rejected
scenario is reported in the output and does not stop the others; use
--strict to exit non-zero when any scenario is rejected. --fail-above
applies to the sum over all scenarios.`,
		Example: `  carbonscope estimate batch --file scenarios.yaml
  carbonscope estimate batch --file scenarios.json --output ndjson --concurrency 8`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return executeEstimateBatch(cmd, params, threshold)
		},
	}

	cmd.Flags().StringVarP(&params.File, "file", "f", "", "scenario file (.yaml, .yml or .json)")
	cmd.Flags().IntVar(&params.Concurrency, "concurrency", 0, "batches estimated at once (default from batch.concurrency)")
	cmd.Flags().IntVar(&params.BatchSize, "batch-size", 0, "scenarios per batch (default from batch.size)")
	cmd.Flags().BoolVar(&params.Strict, "strict", false, "exit with code 1 when any scenario is rejected")
	_ = cmd.MarkFlagRequired("file")
	addOutputFlags(cmd, &params.Output)

	return cmd
}

func executeEstimateBatch(cmd *cobra.Command, params EstimateBatchParams, threshold *ThresholdFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	start := time.Now()
	cfg := config.GetGlobalConfig()

	if err := checkFactorSet(cfg); err != nil {
		return err
	}
	opts, err := params.Output.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	scenarios, err := engine.LoadScenarios(params.File)
	if err != nil {
		return fmt.Errorf("loading scenarios: %w", err)
	}
	log.Debug().Ctx(ctx).Str("file", params.File).Int("scenarios", len(scenarios)).Msg("scenarios loaded")

	engineOpts := engine.Options{
		BatchSize:   cfg.Batch.Size,
		Concurrency: cfg.Batch.Concurrency,
		OnProgress: func(s batch.ProgressSnapshot) {
			log.Debug().
				Ctx(ctx).
				Int("processed", s.ProcessedItems).
				Int("total", s.TotalItems).
				Float64("percent", s.PercentComplete).
				Msg("batch progress")
		},
	}
	if cmd.Flags().Changed("concurrency") {
		engineOpts.Concurrency = params.Concurrency
	}
	if cmd.Flags().Changed("batch-size") {
		engineOpts.BatchSize = params.BatchSize
	}
	if region, regionErr := emissions.ParseRegion(cfg.Calculator.DefaultRegion); regionErr == nil {
		engineOpts.DefaultRegion = region
	}

	outcomes, totals, err := engine.New(engineOpts).EstimateAll(ctx, scenarios)
	if err != nil {
		return fmt.Errorf("estimating scenarios: %w", err)
	}

	entries := engine.ReportEntries(outcomes, opts.precision, opts.equivalents)
	if err := writeOutput(cmd, opts, func(w io.Writer) error {
		return report.RenderBatch(w, opts.format, entries)
	}); err != nil {
		if errors.Is(err, report.ErrNothingToRender) {
			return fmt.Errorf("every scenario was rejected: %w", err)
		}
		return err
	}

	log.Info().
		Ctx(ctx).
		Str("component", "cli").
		Int("scenarios", totals.Scenarios).
		Int("failed", totals.Failed).
		Float64("total_with_s3", totals.TotalWithS3).
		Dur("duration", time.Since(start)).
		Msg("batch estimate complete")

	if params.Strict && totals.Failed > 0 {
		return &ExitError{
			ExitCode: 1,
			Reason:   fmt.Sprintf("%d of %d scenario(s) rejected", totals.Failed, totals.Scenarios),
		}
	}
	return threshold.check(totals.TotalWithS3)
}
