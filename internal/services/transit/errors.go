package transit

import "errors"

var (
	// ErrEmptySeries is returned when the time grid has no samples.
	ErrEmptySeries = errors.New("transit: empty time series")

	// ErrLengthMismatch is returned when flux or per-point sigma does not
	// match the time grid length.
	ErrLengthMismatch = errors.New("transit: series length mismatch")

	// ErrInvalidUncertainty is returned when any uncertainty value is zero
	// or negative. Scoring with such a sigma would divide by zero.
	ErrInvalidUncertainty = errors.New("transit: uncertainty must be strictly positive")

	// ErrInvalidStep is returned when the start-time grid step is not positive.
	ErrInvalidStep = errors.New("transit: t1 step must be positive")
)
