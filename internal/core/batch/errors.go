package batch

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is. Gravity failures use the kinds in
// package gravity.
var (
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidBatch      = errors.New("invalid batch")
)

// TransitionError reports a requested status that cannot be reached, or a
// transition payload the target status does not accept.
type TransitionError struct {
	BatchID string
	From    Status
	To      Status
	Reason  string
}

func (e *TransitionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid transition %s → %s", e.From, e.To)
	}
	return fmt.Sprintf("invalid transition %s → %s: %s", e.From, e.To, e.Reason)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

func invalidBatch(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidBatch, fmt.Sprintf(format, args...))
}
