package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/brewctl/internal/ports/primary"
)

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// parseTime accepts RFC3339, a minute-precision local timestamp, or a bare date.
// Values without a zone are read as UTC. Empty input yields the zero time.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid time %q (use YYYY-MM-DD or RFC3339)", s)
}

// timeFlag reads a string flag as a time.
func timeFlag(cmd *cobra.Command, name string) (time.Time, error) {
	s, _ := cmd.Flags().GetString(name)
	t, err := parseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("--%s: %w", name, err)
	}
	return t, nil
}

// optionalFloat returns the flag value, or nil when the flag was not set.
func optionalFloat(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

// optionalGravity pairs a gravity flag with the shared --unit flag.
func optionalGravity(cmd *cobra.Command, name string) *primary.GravityInput {
	v := optionalFloat(cmd, name)
	if v == nil {
		return nil
	}
	unit, _ := cmd.Flags().GetString("unit")
	return &primary.GravityInput{Value: *v, Unit: unit}
}
