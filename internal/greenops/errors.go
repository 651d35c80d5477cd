package greenops

// constError is an immutable error type for sentinel errors.
type constError string

func (e constError) Error() string { return string(e) }

// Sentinel errors for equivalency calculations, comparable with errors.Is().
var (
	// ErrInvalidUnit is returned by NormalizeToKg for an unknown unit string.
	ErrInvalidUnit = constError("invalid carbon unit")

	// ErrNegativeValue is returned for negative carbon quantities.
	ErrNegativeValue = constError("negative carbon value")

	// ErrCalculationOverflow is returned when an input or intermediate value is NaN or infinite.
	ErrCalculationOverflow = constError("calculation overflow")
)
