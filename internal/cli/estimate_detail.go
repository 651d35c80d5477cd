package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
)

// EstimateDetailParams holds the flags of the estimate detail command.
type EstimateDetailParams struct {
	Region        string
	AnnualKWh     float64
	Gasoline      float64
	Diesel        float64
	RefrigerantKg float64
	GWP           float64
	Refrigerant   string
	Scope3        bool
	Water         float64
	Waste         float64
	Output        OutputFlags
}

// NewEstimateDetailCmd creates the "estimate detail" subcommand.
func NewEstimateDetailCmd(threshold *ThresholdFlags) *cobra.Command {
	var params EstimateDetailParams

	cmd := &cobra.Command{
		Use:   "detail",
		Short: "Estimate from annual consumption figures",
		Long: `Estimate emissions from annual electricity use, fuel volumes and refrigerant
leakage. Minor Scope 3 sources (water supply, waste) are added with --scope3.

The refrigerant GWP is given directly with --gwp or looked up by designation
with --refrigerant (` + strings.Join(emissions.Refrigerants(), ", ") + `).`,
		Example: `  carbonscope estimate detail --region US --annual-kwh 500000 --gasoline 15000 --diesel 5000 \
    --refrigerant-kg 5 --gwp 1430 --scope3 --water 2000 --waste 50`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := params.input(cmd)
			if err != nil {
				return err
			}
			return runEstimate(cmd, in, &params.Output, threshold)
		},
	}

	cmd.Flags().StringVar(&params.Region, "region", "", "region code: TW, US, EU, CN, JP (default from calculator.default_region)")
	cmd.Flags().Float64Var(&params.AnnualKWh, "annual-kwh", 0, "annual electricity consumption in kWh")
	cmd.Flags().Float64Var(&params.Gasoline, "gasoline", 0, "annual gasoline use in litres")
	cmd.Flags().Float64Var(&params.Diesel, "diesel", 0, "annual diesel use in litres")
	cmd.Flags().Float64Var(&params.RefrigerantKg, "refrigerant-kg", 0, "annual refrigerant leakage in kg")
	cmd.Flags().Float64Var(&params.GWP, "gwp", 0, "global warming potential of the refrigerant")
	cmd.Flags().StringVar(&params.Refrigerant, "refrigerant", "", "refrigerant designation used to look up the GWP")
	cmd.Flags().BoolVar(&params.Scope3, "scope3", false, "include water and waste (minor Scope 3)")
	cmd.Flags().Float64Var(&params.Water, "water", 0, "annual water use in cubic metres")
	cmd.Flags().Float64Var(&params.Waste, "waste", 0, "annual waste in metric tons")
	cmd.MarkFlagsMutuallyExclusive("gwp", "refrigerant")
	addOutputFlags(cmd, &params.Output)

	return cmd
}

// input builds the detail-mode input.
func (p *EstimateDetailParams) input(cmd *cobra.Command) (emissions.Input, error) {
	region, err := resolveRegion(cmd, p.Region, config.GetGlobalConfig())
	if err != nil {
		return emissions.Input{}, err
	}

	gwp := p.GWP
	if p.Refrigerant != "" {
		preset, ok := emissions.RefrigerantGWP(p.Refrigerant)
		if !ok {
			return emissions.Input{}, fmt.Errorf("unknown refrigerant %q (known: %s)",
				p.Refrigerant, strings.Join(emissions.Refrigerants(), ", "))
		}
		gwp = preset
	}

	if !p.Scope3 && (cmd.Flags().Changed("water") || cmd.Flags().Changed("waste")) {
		cmd.PrintErrln("Warning: --water and --waste are ignored without --scope3")
	}

	return emissions.Input{
		Region: region,
		Mode:   emissions.ModeDetail,
		Detail: emissions.DetailInput{
			AnnualKWh:          p.AnnualKWh,
			GasolineLitersYear: p.Gasoline,
			DieselLitersYear:   p.Diesel,
			RefrigerantLeakKg:  p.RefrigerantKg,
			RefrigerantGWP:     gwp,
			IncludeScope3:      p.Scope3,
			WaterM3Year:        p.Water,
			WasteTonYear:       p.Waste,
		},
	}, nil
}
