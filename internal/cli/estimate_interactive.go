package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
	"github.com/rshade/carbonscope/internal/tui"
)

// NewEstimateInteractiveCmd creates the "estimate interactive" subcommand.
func NewEstimateInteractiveCmd() *cobra.Command {
	var region, mode string

	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Fill in an estimation form in the terminal",
		Long: `Opens a form with quick and detail tabs. Changing the region resets the
electricity price to that region's default.

Keys: tab/shift+tab move between fields, left/right change the region,
ctrl+t switches mode, enter calculates, ctrl+r restores the defaults,
ctrl+s saves the text report to ` + tui.ReportFileName + `, esc quits.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.GetGlobalConfig()
			if err := checkFactorSet(cfg); err != nil {
				return err
			}
			r, err := resolveRegion(cmd, region, cfg)
			if err != nil {
				return err
			}
			m, err := emissions.ParseMode(mode)
			if err != nil {
				return err
			}
			return tui.Run(cmd.Context(), tui.Options{
				Region:    r,
				Mode:      m,
				Precision: cfg.Output.Precision,
				Input:     cmd.InOrStdin(),
				Output:    cmd.OutOrStdout(),
			})
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "initial region (default from calculator.default_region)")
	cmd.Flags().StringVar(&mode, "mode", string(emissions.ModeQuick), "initial tab: quick or detail")
	return cmd
}

