package emissions

// FactorSetVersion is the semantic version of the coefficient and grid
// factor set compiled into this package. Bump the minor version when a
// factor changes value and the major version when a factor is removed.
const FactorSetVersion = "2024.1.0"

// Combustion factors (kg CO2 per litre).
const (
	GasolineKgPerLiter = 2.3
	DieselKgPerLiter   = 2.6
)

// Quick-mode rule of thumb. A company car is assumed to burn 1000 L of
// gasoline a year and a motorcycle 100 L.
const (
	CarLitersPerYear        = 1000.0
	MotorcycleLitersPerYear = 100.0

	// CarKgPerYear is the annual kg CO2e attributed to one car (2300).
	CarKgPerYear = CarLitersPerYear * GasolineKgPerLiter
	// MotorcycleKgPerYear is the annual kg CO2e attributed to one motorcycle (230).
	MotorcycleKgPerYear = MotorcycleLitersPerYear * GasolineKgPerLiter
)

// Scope 3 factors.
const (
	// WaterKgPerM3 is kg CO2e per cubic metre of mains water supply.
	WaterKgPerM3 = 0.149
	// WasteKgPerTon is kg CO2e per metric ton of mixed waste sent to landfill.
	WasteKgPerTon = 467.0
)

// MaxInputValue is the largest accepted value of any numeric input field.
const MaxInputValue = 1e12

const (
	monthsPerYear = 12
	kgPerTon      = 1000.0

	// componentPrecision is the number of decimals kept for emission quantities.
	componentPrecision = 4
	// sharePrecision is the number of decimals kept for share percentages.
	sharePrecision = 2
	// kwhPrecision is the number of decimals kept for derived annual kWh.
	kwhPrecision = 2
)
