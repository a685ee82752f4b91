// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting, but delegate
// business logic to services.
package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fatih/color"

	"github.com/example/brewctl/internal/core/gravity"
)

const rule = "────────────────────────────────────────────────────────────────"

var statusColors = map[string]*color.Color{
	"PLANNED":      color.New(color.FgHiBlack),
	"BREWING":      color.New(color.FgYellow),
	"FERMENTING":   color.New(color.FgHiYellow),
	"CONDITIONING": color.New(color.FgCyan),
	"PACKAGING":    color.New(color.FgHiBlue),
	"FINISHED":     color.New(color.FgHiGreen),
	"CANCELLED":    color.New(color.FgRed),
}

var resultColors = map[string]*color.Color{
	"PASS":    color.New(color.FgHiGreen),
	"FAIL":    color.New(color.FgRed),
	"PENDING": color.New(color.FgYellow),
}

// badge pads s to width before colouring so escape codes don't break column alignment.
func badge(colors map[string]*color.Color, s string, width int) string {
	padded := fmt.Sprintf("%-*s", width, s)
	if c, ok := colors[s]; ok {
		return c.Sprint(padded)
	}
	return padded
}

func statusBadge(status string, width int) string {
	return badge(statusColors, status, width)
}

func resultBadge(result string, width int) string {
	return badge(resultColors, result, width)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatOptional(v *float64, format func(float64) string) string {
	if v == nil {
		return "-"
	}
	return format(*v)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatOneDecimal(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func formatTemperature(v float64) string {
	return formatOneDecimal(v) + "°C"
}

func formatGravityIn(unit gravity.Unit) func(float64) string {
	return func(sg float64) string { return gravity.Format(sg, unit) }
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func formatDateTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return formatDateTime(*t)
}
