package emissions

import (
	"fmt"
	"math"
)

// components are the raw per-source emissions in metric tons, before rounding.
type components struct {
	annualKWh   float64
	electricity float64
	vehicles    float64
	refrigerant float64
	water       float64
	waste       float64
}

// Estimate computes the emission breakdown for in.
//
// It dispatches on in.Mode to the quick or detail formulas and then applies
// a shared finalization step: components are rounded to 4 decimals, totals
// are sums of the rounded components rounded again to 4 decimals, and shares
// of Total_S1S2 are rounded to 2 decimals (all 0 when Total_S1S2 is 0).
//
// Estimate returns ErrUnknownRegion or ErrUnknownMode for enum values it does
// not know, and ErrResultOutOfRange when a value in the result would not be
// finite. Numeric inputs are not otherwise checked; callers run Validate first.
func Estimate(in Input) (Result, error) {
	ef, ok := gridEmissionFactors[in.Region]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownRegion, in.Region)
	}

	var c components
	switch in.Mode {
	case ModeQuick:
		c = estimateQuick(in.Quick, ef)
	case ModeDetail:
		c = estimateDetail(in.Detail, ef)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownMode, in.Mode)
	}

	r := finalize(in.Region, in.Mode, ef, c)
	if !r.finite() {
		return Result{}, fmt.Errorf("%w: %s mode", ErrResultOutOfRange, in.Mode)
	}
	return r, nil
}

func estimateQuick(q QuickInput, ef float64) components {
	var kwh float64
	if q.PricePerKWh > 0 {
		kwh = q.MonthlyBill / q.PricePerKWh * monthsPerYear
	}

	vehiclesKg := float64(q.CarCount)*CarKgPerYear + float64(q.MotorcycleCount)*MotorcycleKgPerYear

	return components{
		annualKWh:   kwh,
		electricity: kwh * ef / kgPerTon,
		vehicles:    vehiclesKg / kgPerTon,
	}
}

func estimateDetail(d DetailInput, ef float64) components {
	c := components{
		annualKWh:   d.AnnualKWh,
		electricity: d.AnnualKWh * ef / kgPerTon,
		vehicles:    (d.GasolineLitersYear*GasolineKgPerLiter + d.DieselLitersYear*DieselKgPerLiter) / kgPerTon,
		refrigerant: d.RefrigerantLeakKg * d.RefrigerantGWP / kgPerTon,
	}
	if d.IncludeScope3 {
		c.water = d.WaterM3Year * WaterKgPerM3 / kgPerTon
		c.waste = d.WasteTonYear * WasteKgPerTon / kgPerTon
	}
	return c
}

func finalize(region Region, mode Mode, ef float64, c components) Result {
	r := Result{
		Region:            region,
		Mode:              mode,
		GridEF:            ef,
		AnnualKWh:         round(c.annualKWh, kwhPrecision),
		Scope2Electricity: round(c.electricity, componentPrecision),
		Scope1Vehicles:    round(c.vehicles, componentPrecision),
		Scope1Refrigerant: round(c.refrigerant, componentPrecision),
		Scope3Water:       round(c.water, componentPrecision),
		Scope3Waste:       round(c.waste, componentPrecision),
	}

	r.Scope1Total = round(r.Scope1Vehicles+r.Scope1Refrigerant, componentPrecision)
	r.TotalS1S2 = round(r.Scope2Electricity+r.Scope1Total, componentPrecision)
	r.Scope3Minor = round(r.Scope3Water+r.Scope3Waste, componentPrecision)
	r.TotalWithS3 = round(r.TotalS1S2+r.Scope3Minor, componentPrecision)

	if r.TotalS1S2 > 0 {
		r.SharePercent = Shares{
			Electricity: share(r.Scope2Electricity, r.TotalS1S2),
			Vehicles:    share(r.Scope1Vehicles, r.TotalS1S2),
			Refrigerant: share(r.Scope1Refrigerant, r.TotalS1S2),
		}
	}
	return r
}

// finite reports whether every quantity in r is a finite number.
func (r Result) finite() bool {
	for _, v := range []float64{
		r.AnnualKWh, r.Scope2Electricity, r.Scope1Vehicles, r.Scope1Refrigerant,
		r.Scope1Total, r.TotalS1S2, r.Scope3Water, r.Scope3Waste, r.Scope3Minor,
		r.TotalWithS3, r.SharePercent.Electricity, r.SharePercent.Vehicles,
		r.SharePercent.Refrigerant,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func share(part, total float64) float64 {
	return round(part/total*100, sharePrecision)
}

// round rounds v half away from zero to the given number of decimals.
func round(v float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(v*p) / p
}
