package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/carbonscope/internal/config"
	"github.com/rshade/carbonscope/internal/emissions"
)

// EstimateQuickParams holds the flags of the estimate quick command.
type EstimateQuickParams struct {
	Region      string
	MonthlyBill float64
	PricePerKWh float64
	Cars        int
	Motorcycles int
	Output      OutputFlags
}

// NewEstimateQuickCmd creates the "estimate quick" subcommand.
//
// Annual electricity use is derived from the monthly bill and the price per
// kWh; vehicle emissions use a fixed annual fuel volume per car and
// motorcycle. When --price-per-kwh is not given the region's default
// commercial rate is used.
func NewEstimateQuickCmd(threshold *ThresholdFlags) *cobra.Command {
	var params EstimateQuickParams

	cmd := &cobra.Command{
		Use:   "quick",
		Short: "Estimate from a monthly electricity bill and vehicle counts",
		Example: `  # Taiwan office, default electricity price
  carbonscope estimate quick --region TW --monthly-bill 5000 --cars 5 --motorcycles 10

  # Explicit price, JSON output
  carbonscope estimate quick --region US --monthly-bill 1200 --price-per-kwh 0.15 --output json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			in, err := params.input(cmd)
			if err != nil {
				return err
			}
			return runEstimate(cmd, in, &params.Output, threshold)
		},
	}

	cmd.Flags().StringVar(&params.Region, "region", "", "region code: TW, US, EU, CN, JP (default from calculator.default_region)")
	cmd.Flags().Float64Var(&params.MonthlyBill, "monthly-bill", 0, "monthly electricity bill in local currency")
	cmd.Flags().Float64Var(&params.PricePerKWh, "price-per-kwh", 0,
		"electricity price per kWh in local currency (default: the region's average rate)")
	cmd.Flags().IntVar(&params.Cars, "cars", 0, "number of company cars")
	cmd.Flags().IntVar(&params.Motorcycles, "motorcycles", 0, "number of company motorcycles")
	addOutputFlags(cmd, &params.Output)

	return cmd
}

// input builds the quick-mode input, filling the region and its default price.
func (p *EstimateQuickParams) input(cmd *cobra.Command) (emissions.Input, error) {
	region, err := resolveRegion(cmd, p.Region, config.GetGlobalConfig())
	if err != nil {
		return emissions.Input{}, err
	}

	price := p.PricePerKWh
	if !cmd.Flags().Changed("price-per-kwh") {
		if info, ok := emissions.DefaultPrice(region); ok {
			price = info.PricePerKWh
		}
	}

	return emissions.Input{
		Region: region,
		Mode:   emissions.ModeQuick,
		Quick: emissions.QuickInput{
			MonthlyBill:     p.MonthlyBill,
			PricePerKWh:     price,
			CarCount:        p.Cars,
			MotorcycleCount: p.Motorcycles,
			UseRuleOfThumb:  true,
		},
	}, nil
}
