package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/report"
)

// DefaultThresholdExitCode is the exit code used when --fail-above is exceeded.
const DefaultThresholdExitCode = 2

// ErrPDFToTerminal is returned when PDF output would be written to a terminal.
var ErrPDFToTerminal = errors.New("pdf output requires --out when stdout is a terminal")

// ExitError carries a specific process exit code out of a command.
type ExitError struct {
	ExitCode int
	Reason   string
}

func (e *ExitError) Error() string {
	return e.Reason
}

// OutputFlags are the rendering flags shared by the estimate commands.
type OutputFlags struct {
	Output      string
	Out         string
	Precision   int
	Equivalents bool
}

// outputOptions is OutputFlags resolved against the configuration.
type outputOptions struct {
	format      report.Format
	out         string
	precision   int
	equivalents bool
}

func addOutputFlags(cmd *cobra.Command, f *OutputFlags) {
	cmd.Flags().StringVar(&f.Output, "output", "",
		"output format: table, json, ndjson, text, pdf (default from output.default_format)")
	cmd.Flags().StringVar(&f.Out, "out", "", "write output to this file instead of stdout")
	cmd.Flags().IntVar(&f.Precision, "precision", 0,
		"decimals shown for tCO2e values (default from output.precision)")
	cmd.Flags().BoolVar(&f.Equivalents, "equivalents", false,
		"include everyday equivalencies (default from output.equivalents)")
}

// resolve fills unset flags from cfg.
func (f *OutputFlags) resolve(cmd *cobra.Command, cfg *config.Config) (outputOptions, error) {
	opts := outputOptions{
		out:         f.Out,
		precision:   cfg.Output.Precision,
		equivalents: cfg.Output.Equivalents,
	}

	name := cfg.Output.DefaultFormat
	if cmd.Flags().Changed("output") {
		name = f.Output
	}
	format, err := report.ParseFormat(name)
	if err != nil {
		return outputOptions{}, err
	}
	opts.format = format

	if cmd.Flags().Changed("precision") {
		if f.Precision < 0 || f.Precision > config.MaxPrecision {
			return outputOptions{}, fmt.Errorf("%w: got %d", config.ErrPrecisionOutOfRange, f.Precision)
		}
		opts.precision = f.Precision
	}
	if cmd.Flags().Changed("equivalents") {
		opts.equivalents = f.Equivalents
	}
	return opts, nil
}

// writeOutput runs render against --out or the command's stdout.
func writeOutput(cmd *cobra.Command, opts outputOptions, render func(w io.Writer) error) error {
	if opts.out == "" {
		w := cmd.OutOrStdout()
		if opts.format.IsBinary() && report.IsWriterTerminal(w) {
			return ErrPDFToTerminal
		}
		return render(w)
	}

	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := render(f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	cmd.PrintErrf("Report written to %s\n", opts.out)
	return nil
}

// checkFactorSet verifies the built-in factor set against the configured constraint.
func checkFactorSet(cfg *config.Config) error {
	if err := cfg.CheckFactorSet(emissions.FactorSetVersion); err != nil {
		return fmt.Errorf("factor set check failed (calculator.factor_set_constraint): %w", err)
	}
	return nil
}

// check returns an ExitError when total exceeds the threshold.
func (f *ThresholdFlags) check(total float64) error {
	if f == nil || f.FailAbove <= 0 || total <= f.FailAbove {
		return nil
	}
	code := f.ExitCode
	if code < 1 || code > 255 {
		code = DefaultThresholdExitCode
	}
	return &ExitError{
		ExitCode: code,
		Reason:   fmt.Sprintf("total emissions %.4f tCO2e exceed threshold %.4f tCO2e", total, f.FailAbove),
	}
}

// invalidInput wraps a validation error for display.
func invalidInput(err error) error {
	return fmt.Errorf("invalid input:\n%w", err)
}

// resolveRegion parses a --region value, defaulting to calculator.default_region.
func resolveRegion(cmd *cobra.Command, flagValue string, cfg *config.Config) (emissions.Region, error) {
	value := cfg.Calculator.DefaultRegion
	if cmd.Flags().Changed("region") {
		value = flagValue
	}
	return emissions.ParseRegion(value)
}
