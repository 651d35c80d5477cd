package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
)

// NewConfigValidateCmd creates the config validate command for validating configuration.
func NewConfigValidateCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the effective configuration",
		Long: `Validates the effective configuration: ~/.carbonscope/config.yaml overlaid
with the project configuration and CARBONSCOPE_* environment variables.

This includes:
- Output format and precision
- Log format
- Server listen address, limits and timeouts
- Batch size and concurrency
- The factor set constraint, checked against the built-in factor set`,
		Example: `  # Validate current configuration
  carbonscope config validate

  # Validate and show detailed information
  carbonscope config validate --verbose`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigValidate(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "show detailed validation information")

	return cmd
}

// runConfigValidate executes the configuration validation logic.
func runConfigValidate(cmd *cobra.Command, verbose bool) error {
	cfg := config.GetGlobalConfig()

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	if err := checkFactorSet(cfg); err != nil {
		return err
	}

	cmd.Printf("Configuration is valid\n")

	if verbose {
		printVerboseDetails(cmd, cfg)
	}

	return nil
}

// printVerboseDetails prints detailed configuration information.
func printVerboseDetails(cmd *cobra.Command, cfg *config.Config) {
	cmd.Println()
	cmd.Println("Configuration details:")
	cmd.Printf("  Global config file: %s\n", cfg.ConfigPath())
	if dir := config.GetResolvedProjectDir(); dir != "" {
		cmd.Printf("  Project directory: %s\n", dir)
	} else {
		cmd.Println("  No project configuration")
	}
	cmd.Printf("  Output format: %s\n", cfg.Output.DefaultFormat)
	cmd.Printf("  Output precision: %d\n", cfg.Output.Precision)
	cmd.Printf("  Logging level: %s\n", cfg.Logging.Level)
	cmd.Printf("  Log file: %s\n", cfg.Logging.File)
	cmd.Printf("  Default region: %s\n", cfg.Calculator.DefaultRegion)
	cmd.Printf("  Factor set: %s (constraint %s)\n", emissions.FactorSetVersion, cfg.Calculator.FactorSetConstraint)
	cmd.Printf("  Server: %s, %d req/min per client\n", cfg.Server.Listen, cfg.Server.RateLimitPerMinute)
}
