package gravity

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is.
var (
	ErrInvalidGravityValue = errors.New("invalid gravity value")
	ErrInvalidGravityOrder = errors.New("invalid gravity order")
)

// ValueError reports malformed or out-of-domain gravity input.
type ValueError struct {
	Value  float64
	Unit   Unit
	Reason string
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid gravity value %v %s: %s", e.Value, e.Unit, e.Reason)
}

func (e *ValueError) Unwrap() error { return ErrInvalidGravityValue }

// OrderError reports a final gravity above the original gravity.
type OrderError struct {
	OG float64
	FG float64
}

func (e *OrderError) Error() string {
	return fmt.Sprintf("invalid gravity order: final gravity %v must be below original gravity %v", e.FG, e.OG)
}

func (e *OrderError) Unwrap() error { return ErrInvalidGravityOrder }
