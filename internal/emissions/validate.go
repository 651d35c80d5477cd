package emissions

import (
	"errors"
	"fmt"
	"math"
)

// Validate checks in before it is passed to Estimate.
//
// Every rejected field is reported; the returned error joins one *FieldError
// per field and matches ErrUnknownRegion, ErrUnknownMode, ErrNegativeInput or
// ErrInputTooLarge with errors.Is. Only the sub-record selected by Mode is
// checked.
func Validate(in Input) error {
	var errs []error

	if !in.Region.Valid() {
		errs = append(errs, &FieldError{Field: "region", Err: fmt.Errorf("%w: %q", ErrUnknownRegion, in.Region)})
	}

	switch in.Mode {
	case ModeQuick:
		errs = appendNumeric(errs, "quick.monthly_bill", in.Quick.MonthlyBill)
		errs = appendNumeric(errs, "quick.price_per_kwh", in.Quick.PricePerKWh)
		errs = appendCount(errs, "quick.car_count", in.Quick.CarCount)
		errs = appendCount(errs, "quick.motorcycle_count", in.Quick.MotorcycleCount)
	case ModeDetail:
		d := in.Detail
		errs = appendNumeric(errs, "detail.annual_kwh", d.AnnualKWh)
		errs = appendNumeric(errs, "detail.gasoline_liters_year", d.GasolineLitersYear)
		errs = appendNumeric(errs, "detail.diesel_liters_year", d.DieselLitersYear)
		errs = appendNumeric(errs, "detail.refrigerant_leak_kg", d.RefrigerantLeakKg)
		errs = appendNumeric(errs, "detail.refrigerant_gwp", d.RefrigerantGWP)
		if d.IncludeScope3 {
			errs = appendNumeric(errs, "detail.water_m3_year", d.WaterM3Year)
			errs = appendNumeric(errs, "detail.waste_ton_year", d.WasteTonYear)
		}
	default:
		errs = append(errs, &FieldError{Field: "mode", Err: fmt.Errorf("%w: %q", ErrUnknownMode, in.Mode)})
	}

	return errors.Join(errs...)
}

// ValidateAndEstimate runs Validate and, when it passes, Estimate. A result
// that is out of range is reported as a *FieldError on the mode's sub-record.
func ValidateAndEstimate(in Input) (Result, error) {
	if err := Validate(in); err != nil {
		return Result{}, err
	}
	res, err := Estimate(in)
	if errors.Is(err, ErrResultOutOfRange) {
		return Result{}, &FieldError{Field: string(in.Mode), Err: err}
	}
	return res, err
}

func appendNumeric(errs []error, field string, v float64) []error {
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return append(errs, &FieldError{Field: field, Err: fmt.Errorf("%w: got %v", ErrNegativeInput, v)})
	}
	if v > MaxInputValue {
		return append(errs, &FieldError{Field: field, Err: fmt.Errorf("%w: got %g, max %g", ErrInputTooLarge, v, MaxInputValue)})
	}
	return errs
}

func appendCount(errs []error, field string, v int) []error {
	if v < 0 {
		return append(errs, &FieldError{Field: field, Err: fmt.Errorf("%w: got %d", ErrNegativeInput, v)})
	}
	return errs
}

// FieldErrors extracts every *FieldError from an error returned by Validate.
func FieldErrors(err error) []*FieldError {
	if err == nil {
		return nil
	}
	var out []*FieldError
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range joined.Unwrap() {
			out = append(out, FieldErrors(e)...)
		}
		return out
	}
	var fe *FieldError
	if errors.As(err, &fe) {
		out = append(out, fe)
	}
	return out
}
