// Package greenops turns emission totals into relatable equivalencies.
//
// Totals produced by the emissions package are abstract (tCO2e). This package
// normalizes them to kilograms and expresses them as miles driven,
// smartphones charged, tree seedlings grown and days of home electricity,
// using EPA-published conversion factors. It also carries the number
// formatting helpers shared by the report renderers.
package greenops

import (
	"fmt"
	"strings"
)

// EquivalencyType is a category of carbon equivalency.
type EquivalencyType int

const (
	// EquivalencyMilesDriven is miles driven in an average passenger vehicle.
	EquivalencyMilesDriven EquivalencyType = iota
	// EquivalencySmartphonesCharged is full smartphone charges.
	EquivalencySmartphonesCharged
	// EquivalencyTreeSeedlings is tree seedlings grown for 10 years to absorb the emissions.
	EquivalencyTreeSeedlings
	// EquivalencyHomeDays is days of average US home electricity use.
	EquivalencyHomeDays
)

// String returns the identifier used in JSON output.
func (e EquivalencyType) String() string {
	switch e {
	case EquivalencyMilesDriven:
		return "miles_driven"
	case EquivalencySmartphonesCharged:
		return "smartphones_charged"
	case EquivalencyTreeSeedlings:
		return "tree_seedlings"
	case EquivalencyHomeDays:
		return "home_days"
	default:
		return fmt.Sprintf("EquivalencyType(%d)", e)
	}
}

// MarshalText encodes the type by name.
func (e EquivalencyType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText decodes a type name written by MarshalText.
func (e *EquivalencyType) UnmarshalText(b []byte) error {
	for _, def := range equivalencyDefs {
		if def.kind.String() == string(b) {
			*e = def.kind
			return nil
		}
	}
	return fmt.Errorf("unknown equivalency type %q", b)
}

// CarbonInput is a carbon quantity with its unit.
type CarbonInput struct {
	Value float64 `json:"value"`
	// Unit is one of g, kg, t, lb, optionally suffixed with CO2e (case-insensitive).
	Unit string `json:"unit"`
}

// Equivalency is a single calculated equivalency.
type Equivalency struct {
	Type EquivalencyType `json:"type"`
	// Value is the unrounded equivalency amount.
	Value float64 `json:"value"`
	// Formatted is Value with thousand separators or million/billion scaling.
	Formatted string `json:"formatted"`
	// Label is the activity phrase, e.g. "miles driven".
	Label string `json:"label"`
}

// Approx returns Formatted with a single leading "~".
func (e Equivalency) Approx() string {
	return "~" + strings.TrimPrefix(e.Formatted, "~")
}

// Output holds the equivalencies for one carbon quantity.
type Output struct {
	InputKg float64       `json:"input_kg"`
	Items   []Equivalency `json:"items,omitempty"`
	// Summary is the prose line shown in reports, e.g.
	// "Equivalent to driving ~1,412,265 miles or charging ~32,987,226 smartphones".
	Summary string `json:"summary,omitempty"`
	// Compact is the abbreviated form used in table cells.
	Compact string `json:"compact,omitempty"`
	Empty   bool   `json:"-"`
}

// Find returns the equivalency of type t, if present.
func (o Output) Find(t EquivalencyType) (Equivalency, bool) {
	for _, item := range o.Items {
		if item.Type == t {
			return item, true
		}
	}
	return Equivalency{}, false
}
