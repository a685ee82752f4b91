// Package gravity contains the pure conversion and ABV rules for wort gravity.
// This is part of the Functional Core - no I/O, only pure functions.
//
// All persisted gravity values are canonical specific gravity (SG). Plato is a
// presentation-time unit and is converted to SG before any computation.
package gravity

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Unit is a gravity scale.
type Unit string

const (
	UnitSG    Unit = "SG"
	UnitPlato Unit = "PLATO"
)

// abvFactor is the standard (OG - FG) multiplier for SG inputs.
const abvFactor = 131.25

// legacyPlatoFactor is the Plato-domain multiplier the dashboard used.
const legacyPlatoFactor = 0.53

// Measurement is a gravity value together with the scale it was taken in.
type Measurement struct {
	Value float64
	Unit  Unit
}

// SG returns a measurement in specific gravity.
func SG(v float64) Measurement { return Measurement{Value: v, Unit: UnitSG} }

// Plato returns a measurement in degrees Plato.
func Plato(v float64) Measurement { return Measurement{Value: v, Unit: UnitPlato} }

// ParseUnit parses a user-supplied unit name.
// Accepts "sg", "plato", "p" and "°p" in any case. Empty defaults to SG.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sg":
		return UnitSG, nil
	case "plato", "p", "°p":
		return UnitPlato, nil
	}
	return "", fmt.Errorf("unknown gravity unit %q (expected sg or plato)", s)
}

// ToSG converts a value in the given unit to specific gravity.
// SG values are returned unchanged. Plato values use
// SG = 1 + P / (258.6 - (P / 258.2) * 227.1).
// Negative Plato, non-finite input, or a result not above 1.0 fails with
// a *ValueError.
func ToSG(value float64, unit Unit) (float64, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, &ValueError{Value: value, Unit: unit, Reason: "value is not a finite number"}
	}

	var sg float64
	switch unit {
	case UnitSG:
		sg = value
	case UnitPlato:
		if value < 0 {
			return 0, &ValueError{Value: value, Unit: unit, Reason: "plato must be zero or greater"}
		}
		sg = 1 + value/(258.6-((value/258.2)*227.1))
	default:
		return 0, &ValueError{Value: value, Unit: unit, Reason: "unknown unit"}
	}

	if !(sg > 1.0) {
		return 0, &ValueError{Value: value, Unit: unit, Reason: fmt.Sprintf("specific gravity %.4f must be greater than 1.000", sg)}
	}
	return sg, nil
}

// ToPlato converts specific gravity to degrees Plato for display.
// Uses the standard cubic approximation; it is not an exact inverse of ToSG
// but agrees to within 0.001 SG across brewing ranges.
func ToPlato(sg float64) float64 {
	return -616.868 + 1111.14*sg - 630.272*sg*sg + 135.997*sg*sg*sg
}

// Canonical converts a measurement to SG.
func (m Measurement) Canonical() (float64, error) {
	return ToSG(m.Value, m.Unit)
}

// ComputeABV returns the estimated alcohol by volume for SG readings.
// Rules:
// - og == fg yields exactly 0
// - og < fg fails with *OrderError
// The result carries full precision; use RoundPercent for display.
func ComputeABV(og, fg float64) (float64, error) {
	if math.IsNaN(og) || math.IsNaN(fg) || math.IsInf(og, 0) || math.IsInf(fg, 0) {
		return 0, &ValueError{Value: og, Unit: UnitSG, Reason: "gravity is not a finite number"}
	}
	if og == fg {
		return 0, nil
	}
	if og < fg {
		return 0, &OrderError{OG: og, FG: fg}
	}
	return (og - fg) * abvFactor, nil
}

// ComputeABVFrom converts both measurements to SG and applies ComputeABV.
// This is the only supported path for Plato readings.
func ComputeABVFrom(og, fg Measurement) (float64, error) {
	ogSG, err := og.Canonical()
	if err != nil {
		return 0, err
	}
	fgSG, err := fg.Canonical()
	if err != nil {
		return 0, err
	}
	return ComputeABV(ogSG, fgSG)
}

// LegacyPlatoABV applies the Plato-domain approximation (ogP - fgP) * 0.53.
//
// Deprecated: this is an independently fitted formula that can drift several
// tenths of a percent from ComputeABV. Convert with ToSG and use ComputeABV.
func LegacyPlatoABV(ogPlato, fgPlato float64) (float64, error) {
	if ogPlato < 0 || fgPlato < 0 {
		return 0, &ValueError{Value: math.Min(ogPlato, fgPlato), Unit: UnitPlato, Reason: "plato must be zero or greater"}
	}
	if ogPlato < fgPlato {
		return 0, &OrderError{OG: ogPlato, FG: fgPlato}
	}
	return (ogPlato - fgPlato) * legacyPlatoFactor, nil
}

// RoundPercent rounds a percentage to two decimal places, half away from zero.
func RoundPercent(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

// FormatPercent formats a percentage with two decimals, e.g. "5.64%".
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2) + "%"
}

// FormatSG formats a specific gravity with three decimals, e.g. "1.050".
func FormatSG(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(3)
}

// Format renders a canonical SG value in the requested display unit.
func Format(sg float64, unit Unit) string {
	if unit == UnitPlato {
		return decimal.NewFromFloat(ToPlato(sg)).StringFixed(1) + " °P"
	}
	return FormatSG(sg)
}
