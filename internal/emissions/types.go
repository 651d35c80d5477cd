// Package emissions estimates an organization's greenhouse-gas emissions.
//
// Estimate turns an Input record into a Result broken down by scope
// (Scope 1 vehicles and refrigerant, Scope 2 purchased electricity, and a
// minor Scope 3 subset of water and waste) plus the percentage share of each
// Scope 1/2 source. The package is pure: it reads only the static reference
// tables in tables.go and never logs, performs I/O, or keeps state, so it is
// safe for concurrent use without locking.
package emissions

import (
	"fmt"
	"strings"
)

// Region is a supported grid region code.
type Region string

// Supported regions.
const (
	RegionTW Region = "TW"
	RegionUS Region = "US"
	RegionEU Region = "EU"
	RegionCN Region = "CN"
	RegionJP Region = "JP"
)

// ParseRegion converts a case-insensitive region code into a Region.
// It returns ErrUnknownRegion for codes missing from the reference tables.
func ParseRegion(s string) (Region, error) {
	r := Region(strings.ToUpper(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRegion, s)
	}
	return r, nil
}

// Valid reports whether r has an entry in the reference tables.
func (r Region) Valid() bool {
	_, ok := gridEmissionFactors[r]
	return ok
}

func (r Region) String() string { return string(r) }

// Mode selects the formula path used by Estimate.
type Mode string

const (
	// ModeQuick estimates from a monthly electricity bill and vehicle counts.
	ModeQuick Mode = "quick"
	// ModeDetail estimates from annual consumption figures.
	ModeDetail Mode = "detail"
)

// ParseMode converts a case-insensitive mode name into a Mode.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
	return m, nil
}

// Valid reports whether m is quick or detail.
func (m Mode) Valid() bool {
	return m == ModeQuick || m == ModeDetail
}

func (m Mode) String() string { return string(m) }

// QuickInput holds the fields used in quick mode.
type QuickInput struct {
	// MonthlyBill is the monthly electricity bill in local currency.
	MonthlyBill float64 `json:"monthly_bill" yaml:"monthly_bill"`
	// PricePerKWh is the electricity price in local currency per kWh.
	// Zero means the rate is unknown and the electricity component is 0.
	PricePerKWh float64 `json:"price_per_kwh" yaml:"price_per_kwh"`
	CarCount    int     `json:"car_count" yaml:"car_count"`
	// MotorcycleCount is the number of company motorcycles.
	MotorcycleCount int `json:"motorcycle_count" yaml:"motorcycle_count"`
	// UseRuleOfThumb selects per-vehicle annual constants for Scope 1.
	// It is the only vehicle estimate available; false behaves the same.
	UseRuleOfThumb bool `json:"use_rule_of_thumb" yaml:"use_rule_of_thumb"`
}

// DetailInput holds the fields used in detail mode.
type DetailInput struct {
	AnnualKWh          float64 `json:"annual_kwh" yaml:"annual_kwh"`
	GasolineLitersYear float64 `json:"gasoline_liters_year" yaml:"gasoline_liters_year"`
	DieselLitersYear   float64 `json:"diesel_liters_year" yaml:"diesel_liters_year"`
	RefrigerantLeakKg  float64 `json:"refrigerant_leak_kg" yaml:"refrigerant_leak_kg"`
	// RefrigerantGWP is the global warming potential of the leaked refrigerant.
	RefrigerantGWP float64 `json:"refrigerant_gwp" yaml:"refrigerant_gwp"`
	IncludeScope3  bool    `json:"include_scope3" yaml:"include_scope3"`
	WaterM3Year    float64 `json:"water_m3_year" yaml:"water_m3_year"`
	WasteTonYear   float64 `json:"waste_ton_year" yaml:"waste_ton_year"`
}

// Input is a single calculation request.
// Only the sub-record matching Mode is read.
type Input struct {
	Region Region      `json:"region" yaml:"region"`
	Mode   Mode        `json:"mode" yaml:"mode"`
	Quick  QuickInput  `json:"quick,omitempty" yaml:"quick,omitempty"`
	Detail DetailInput `json:"detail,omitempty" yaml:"detail,omitempty"`
}

// Normalize returns in with Region and Mode case-folded when they name a
// known value. Unknown values are kept as given so Validate can report them.
// Quick inputs always use the vehicle rule of thumb.
func (in Input) Normalize() Input {
	if r, err := ParseRegion(string(in.Region)); err == nil {
		in.Region = r
	}
	if m, err := ParseMode(string(in.Mode)); err == nil {
		in.Mode = m
	}
	if in.Mode == ModeQuick {
		in.Quick.UseRuleOfThumb = true
	}
	return in
}

// Shares is the percentage of Total_S1S2 contributed by each source.
type Shares struct {
	Electricity float64 `json:"Electricity"`
	Vehicles    float64 `json:"Vehicles"`
	Refrigerant float64 `json:"Refrigerant"`
}

// Result is the emission breakdown produced by Estimate.
// All emission quantities are metric tons CO2e.
type Result struct {
	Region Region `json:"Region"`
	Mode   Mode   `json:"Mode"`
	// GridEF is the grid emission factor used, in kg CO2 per kWh.
	GridEF float64 `json:"Grid_EF"`
	// AnnualKWh is the supplied (detail) or derived (quick) consumption.
	AnnualKWh float64 `json:"Annual_kWh"`

	Scope2Electricity float64 `json:"Scope2_Electricity"`
	Scope1Vehicles    float64 `json:"Scope1_Vehicles"`
	Scope1Refrigerant float64 `json:"Scope1_Refrigerant"`
	Scope1Total       float64 `json:"Scope1_Total"`
	TotalS1S2         float64 `json:"Total_S1S2"`

	Scope3Water float64 `json:"Scope3_Water"`
	Scope3Waste float64 `json:"Scope3_Waste"`
	Scope3Minor float64 `json:"Scope3_Minor"`
	TotalWithS3 float64 `json:"Total_With_S3"`

	SharePercent Shares `json:"Share_Percent"`
}

// HasScope3 reports whether the result carries a non-zero Scope 3 component.
func (r Result) HasScope3() bool {
	return r.Scope3Minor > 0
}
