package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/report"
)

// NewRegionsCmd creates the "regions" command listing the reference data.
func NewRegionsCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "regions",
		Short: "List grid emission factors and default electricity prices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := report.ParseFormat(output)
			if err != nil {
				return err
			}
			return report.RenderRegions(cmd.OutOrStdout(), format, report.Regions())
		},
	}

	cmd.Flags().StringVar(&output, "output", "table", "output format: table or json")
	return cmd
}
