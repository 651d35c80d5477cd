// Package cli implements the carbonscope command tree.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/logging"
)

var (
	// logger is the package-level logger for CLI operations.
	logger zerolog.Logger //nolint:gochecknoglobals // Required for zerolog context integration
	// baseLogger is logger without the cli component tag, for long-running
	// subsystems that tag themselves.
	baseLogger zerolog.Logger //nolint:gochecknoglobals // Set with logger in setupLogging
)

// NewRootCmd creates the root Cobra command for the carbonscope CLI.
// It loads configuration, wires up logging and tracing, and adds the
// estimate, regions, serve and config command groups.
func NewRootCmd(ver string) *cobra.Command {
	var (
		logResult  *logging.LogPathResult
		projectDir string
	)

	cmd := &cobra.Command{
		Use:           "carbonscope",
		Short:         "Greenhouse-gas emission estimator",
		Long:          "carbonscope: estimate annual Scope 1, Scope 2 and minor Scope 3 emissions for an organisation",
		Version:       ver,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loadConfig(cmd, projectDir)
			result := setupLogging(cmd)
			logResult = &result
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return cleanupLogging(cmd, logResult)
		},
	}

	cmd.PersistentFlags().Bool("debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&projectDir, "project-dir", "",
		"project directory holding .carbonscope/config.yaml (default: search from the working directory)")
	cmd.AddCommand(newEstimateCmd(), NewRegionsCmd(), NewServeCmd(ver), newConfigCmd())

	return cmd
}

const rootCmdExample = `  # Quick estimate from a monthly electricity bill and vehicle counts
  carbonscope estimate quick --region TW --monthly-bill 5000 --cars 5 --motorcycles 10

  # Detailed estimate including minor Scope 3 sources
  carbonscope estimate detail --region US --annual-kwh 500000 --gasoline 15000 --diesel 5000 \
    --refrigerant-kg 5 --refrigerant R-134a --scope3 --water 2000 --waste 50

  # Estimate every scenario in a file
  carbonscope estimate batch --file scenarios.yaml --output json

  # Fill in the form interactively
  carbonscope estimate interactive

  # Show grid emission factors and default prices
  carbonscope regions

  # Serve the HTTP API
  carbonscope serve --listen :8080

  # Set configuration values
  carbonscope config set output.default_format json`

// ThresholdFlags holds the exit-on-threshold flags for the estimate command group.
type ThresholdFlags struct {
	// FailAbove is the total (tCO2e, including Scope 3 when present) above
	// which the command exits with ExitCode. Zero disables the check.
	FailAbove float64
	ExitCode  int
}

// newEstimateCmd creates the estimate command group.
func newEstimateCmd() *cobra.Command {
	var flags ThresholdFlags

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Emission estimation commands",
	}

	cmd.PersistentFlags().Float64Var(&flags.FailAbove, "fail-above", 0,
		"exit with --exit-code when total emissions exceed this many tCO2e (0 disables)")
	cmd.PersistentFlags().IntVar(&flags.ExitCode, "exit-code", DefaultThresholdExitCode,
		"exit code used when --fail-above is exceeded (1-255)")

	cmd.AddCommand(
		NewEstimateQuickCmd(&flags), NewEstimateDetailCmd(&flags),
		NewEstimateBatchCmd(&flags), NewEstimateInteractiveCmd(),
	)
	return cmd
}

// newConfigCmd creates the config command group with configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "config", Short: "Configuration management commands"}
	cmd.AddCommand(
		NewConfigInitCmd(), NewConfigSetCmd(), NewConfigGetCmd(),
		NewConfigListCmd(), NewConfigValidateCmd(),
	)
	return cmd
}
