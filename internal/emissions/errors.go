package emissions

import "fmt"

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors returned by Estimate and Validate.
// They can be compared with errors.Is().
var (
	// ErrUnknownRegion indicates a region code missing from the reference tables.
	ErrUnknownRegion = constError("unknown region")

	// ErrUnknownMode indicates a mode other than quick or detail.
	ErrUnknownMode = constError("unknown calculation mode")

	// ErrNegativeInput indicates a negative, NaN or infinite numeric input.
	ErrNegativeInput = constError("input must be a non-negative finite number")

	// ErrInputTooLarge indicates a numeric input above MaxInputValue.
	ErrInputTooLarge = constError("input exceeds the supported maximum")

	// ErrResultOutOfRange indicates inputs whose emissions are not finite,
	// e.g. a bill divided by a near-zero price.
	ErrResultOutOfRange = constError("estimated emissions are out of range")
)

// FieldError reports a rejected input field.
type FieldError struct {
	// Field is the input field name as it appears in JSON (e.g. "detail.annual_kwh").
	Field string
	// Err is the underlying sentinel error.
	Err error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
