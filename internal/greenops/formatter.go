package greenops

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer formats numbers with English thousand separators.
//
//nolint:gochecknoglobals // Global printer is idiomatic for x/text/message usage.
var printer = message.NewPrinter(language.English)

// FormatNumber formats an integer with thousand separators: 18248 → "18,248".
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatFloat rounds f half away from zero to precision decimals and formats
// it with thousand separators: FormatFloat(1234.567, 2) → "1,234.57".
func FormatFloat(f float64, precision int) string {
	precision = max(precision, 0)
	p := math.Pow10(precision)
	rounded := math.Round(f*p) / p

	if precision == 0 {
		return FormatNumber(int64(rounded))
	}
	return printer.Sprintf("%v", number.Decimal(rounded,
		number.MinFractionDigits(precision),
		number.MaxFractionDigits(precision)))
}

// FormatTons formats a tCO2e quantity, e.g. "247.6500 tCO2e".
func FormatTons(t float64, precision int) string {
	return FormatFloat(t, precision) + " tCO2e"
}

// FormatPercent formats a share percentage, e.g. "77.93%".
func FormatPercent(p float64, precision int) string {
	return FormatFloat(p, precision) + "%"
}

// FormatLarge abbreviates values of a million or more ("~1.5 billion") and
// formats smaller values as separated integers.
func FormatLarge(n float64) string {
	switch {
	case n >= BillionThreshold:
		return fmt.Sprintf("~%.1f billion", n/BillionThreshold)
	case n >= LargeNumberThreshold:
		return fmt.Sprintf("~%.1f million", n/LargeNumberThreshold)
	default:
		return FormatNumber(int64(math.Round(n)))
	}
}
