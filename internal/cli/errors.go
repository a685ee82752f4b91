package cli

import (
	"errors"
	"fmt"

	"github.com/example/brewctl/internal/app"
	"github.com/example/brewctl/internal/core/batch"
	"github.com/example/brewctl/internal/core/gravity"
	"github.com/example/brewctl/internal/ports/secondary"
)

// DescribeError turns an error from a command into the message shown to the
// operator. Known kinds get a short prefix; anything else is returned as is.
func DescribeError(err error) string {
	if err == nil {
		return ""
	}

	var verr *app.ValidationError
	switch {
	case errors.As(err, &verr):
		return fmt.Sprintf("Invalid input: %v", err)
	case errors.Is(err, secondary.ErrNotFound):
		return fmt.Sprintf("Not found: %v", err)
	case errors.Is(err, secondary.ErrVersionConflict):
		return fmt.Sprintf("Conflict: %v (the batch changed since it was read; retry the command)", err)
	case errors.Is(err, app.ErrBlockedByQC):
		return fmt.Sprintf("Blocked: %v", err)
	case errors.Is(err, batch.ErrInvalidTransition), errors.Is(err, batch.ErrInvalidBatch):
		return fmt.Sprintf("Rejected: %v", err)
	case errors.Is(err, gravity.ErrInvalidGravityValue), errors.Is(err, gravity.ErrInvalidGravityOrder):
		return fmt.Sprintf("Gravity error: %v", err)
	}
	return err.Error()
}
