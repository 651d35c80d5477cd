package emissions

import (
	"maps"
	"slices"
)

// gridEmissionFactors maps region codes to grid carbon intensity in kg CO2 per kWh.
//
// Data vintage: 2024. Values are national/union averages published by the
// regional energy authorities (TW Energy Administration, US EPA eGRID,
// EEA, CN MEE, JP MOE).
var gridEmissionFactors = map[Region]float64{
	RegionTW: 0.495, // Taiwan
	RegionUS: 0.386, // United States
	RegionEU: 0.295, // European Union
	RegionCN: 0.581, // China
	RegionJP: 0.441, // Japan
}

// regionOrder is the display order used by Regions.
var regionOrder = []Region{RegionTW, RegionUS, RegionEU, RegionCN, RegionJP}

var regionNames = map[Region]string{
	RegionTW: "Taiwan",
	RegionUS: "United States",
	RegionEU: "European Union",
	RegionCN: "China",
	RegionJP: "Japan",
}

// PriceInfo is a regional electricity price default.
type PriceInfo struct {
	// PricePerKWh is the default price in local currency per kWh.
	PricePerKWh float64 `json:"price_per_kwh" yaml:"price_per_kwh"`
	// Currency is the ISO 4217 currency code.
	Currency string `json:"currency" yaml:"currency"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Note     string `json:"note" yaml:"note"`
}

var regionPrices = map[Region]PriceInfo{
	RegionTW: {PricePerKWh: 4.4, Currency: "NTD", Symbol: "NT$", Note: "Taiwan average commercial electricity rate"},
	RegionUS: {PricePerKWh: 0.12, Currency: "USD", Symbol: "$", Note: "US average commercial electricity rate"},
	RegionEU: {PricePerKWh: 0.25, Currency: "EUR", Symbol: "€", Note: "EU average commercial electricity rate"},
	RegionCN: {PricePerKWh: 0.8, Currency: "CNY", Symbol: "¥", Note: "China average commercial electricity rate"},
	RegionJP: {PricePerKWh: 25, Currency: "JPY", Symbol: "¥", Note: "Japan average commercial electricity rate"},
}

// refrigerantGWP lists 100-year GWP values (IPCC AR4) for common refrigerants.
var refrigerantGWP = map[string]float64{
	"R-134a": 1430,
	"R-410A": 2088,
	"R-32":   675,
}

// Regions returns the supported regions in display order.
func Regions() []Region {
	return slices.Clone(regionOrder)
}

// GridEmissionFactor returns the grid emission factor for r in kg CO2 per kWh.
func GridEmissionFactor(r Region) (float64, bool) {
	ef, ok := gridEmissionFactors[r]
	return ef, ok
}

// GridEmissionFactors returns a copy of the grid emission factor table.
func GridEmissionFactors() map[Region]float64 {
	return maps.Clone(gridEmissionFactors)
}

// DefaultPrice returns the default electricity price entry for r.
func DefaultPrice(r Region) (PriceInfo, bool) {
	p, ok := regionPrices[r]
	return p, ok
}

// RegionPrices returns a copy of the regional electricity price table.
func RegionPrices() map[Region]PriceInfo {
	return maps.Clone(regionPrices)
}

// RegionName returns the display name of r, or the code itself when unknown.
func RegionName(r Region) string {
	if name, ok := regionNames[r]; ok {
		return name
	}
	return string(r)
}

// RefrigerantGWP returns the GWP preset for a refrigerant designation such as "R-410A".
// Lookup ignores case and an omitted dash ("r410a").
func RefrigerantGWP(name string) (float64, bool) {
	key := normalizeRefrigerant(name)
	for k, v := range refrigerantGWP {
		if normalizeRefrigerant(k) == key {
			return v, true
		}
	}
	return 0, false
}

// Refrigerants returns the known refrigerant designations, sorted.
func Refrigerants() []string {
	return slices.Sorted(maps.Keys(refrigerantGWP))
}

func normalizeRefrigerant(s string) string {
	out := make([]byte, 0, len(s))
	for i := range len(s) {
		c := s[i]
		switch {
		case c == '-' || c == ' ':
			continue
		case c >= 'a' && c <= 'z':
			out = append(out, c-'a'+'A')
		default:
			out = append(out, c)
		}
	}
	return string(out)
}
