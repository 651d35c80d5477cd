package greenops

import (
	"fmt"
	"math"
)

type equivalencyDef struct {
	kind   EquivalencyType
	factor float64
	label  string
}

// equivalencyDefs is the display order of equivalencies.
var equivalencyDefs = []equivalencyDef{
	{EquivalencyMilesDriven, EPAMilesDrivenFactor, "miles driven"},
	{EquivalencySmartphonesCharged, EPASmartphoneChargeFactor, "smartphones charged"},
	{EquivalencyTreeSeedlings, EPATreeSeedlingFactor, "tree seedlings grown for 10 years"},
	{EquivalencyHomeDays, EPAHomeDayFactor, "days of home electricity"},
}

// Calculate normalizes input to kilograms and computes every equivalency.
//
// Quantities below MinEquivalencyThresholdKg return an empty Output with
// InputKg set and no error. Normalization errors (ErrInvalidUnit,
// ErrNegativeValue, ErrCalculationOverflow) are returned with an empty Output.
func Calculate(input CarbonInput) (Output, error) {
	kg, err := NormalizeToKg(input.Value, input.Unit)
	if err != nil {
		return Output{Empty: true}, err
	}
	if kg < MinEquivalencyThresholdKg {
		return Output{InputKg: kg, Empty: true}, nil
	}

	items := make([]Equivalency, 0, len(equivalencyDefs))
	for _, def := range equivalencyDefs {
		v := kg / def.factor
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return Output{Empty: true}, ErrCalculationOverflow
		}
		items = append(items, Equivalency{
			Type:      def.kind,
			Value:     v,
			Formatted: formatEquivalencyValue(v),
			Label:     def.label,
		})
	}

	miles, phones := items[0].Approx(), items[1].Approx()
	return Output{
		InputKg: kg,
		Items:   items,
		Summary: fmt.Sprintf("Equivalent to driving %s miles or charging %s smartphones", miles, phones),
		Compact: fmt.Sprintf("(%s mi, %s phones)", miles, phones),
	}, nil
}

// ForTons computes equivalencies for a quantity in metric tons CO2e.
func ForTons(tons float64) (Output, error) {
	return Calculate(CarbonInput{Value: tons, Unit: "tCO2e"})
}

// formatEquivalencyValue scales values of a million or more and rounds the
// rest to a whole number with separators.
func formatEquivalencyValue(v float64) string {
	if v >= LargeNumberThreshold {
		return FormatLarge(v)
	}
	return FormatNumber(int64(math.Round(v)))
}
