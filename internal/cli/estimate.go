package cli

import (
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/logging"
	"github.com/rshade/carbonscope/internal/report"
)

// runEstimate validates in, estimates it, renders the result and applies
// the threshold check.
func runEstimate(cmd *cobra.Command, in emissions.Input, out *OutputFlags, threshold *ThresholdFlags) error {
	ctx := cmd.Context()
	log := logging.FromContext(ctx)
	start := time.Now()
	cfg := config.GetGlobalConfig()

	if err := checkFactorSet(cfg); err != nil {
		return err
	}
	opts, err := out.resolve(cmd, cfg)
	if err != nil {
		return err
	}

	log.Debug().
		Ctx(ctx).
		Str("component", "cli").
		Str("operation", "estimate").
		Str("region", in.Region.String()).
		Str("mode", in.Mode.String()).
		Msg("starting estimate")

	res, err := emissions.ValidateAndEstimate(in)
	if err != nil {
		log.Debug().Ctx(ctx).Err(err).Msg("input rejected")
		return invalidInput(err)
	}

	doc := report.NewDocument(in, res, opts.precision, opts.equivalents)
	if err := writeOutput(cmd, opts, func(w io.Writer) error {
		return report.Render(w, opts.format, doc)
	}); err != nil {
		return err
	}

	log.Info().
		Ctx(ctx).
		Str("component", "cli").
		Str("region", res.Region.String()).
		Str("mode", res.Mode.String()).
		Float64("total_s1s2", res.TotalS1S2).
		Float64("total_with_s3", res.TotalWithS3).
		Dur("duration", time.Since(start)).
		Msg("estimate complete")

	return threshold.check(res.TotalWithS3)
}
