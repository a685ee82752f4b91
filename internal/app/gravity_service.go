package app

import (
	"github.com/example/brewctl/internal/core/gravity"
	"github.com/example/brewctl/internal/ports/primary"
)

// GravityServiceImpl implements the GravityService interface.
// It holds no state; conversions are pure.
type GravityServiceImpl struct{}

// NewGravityService creates a new GravityService.
func NewGravityService() *GravityServiceImpl {
	return &GravityServiceImpl{}
}

// Convert converts a gravity value to both SG and Plato.
func (s *GravityServiceImpl) Convert(input primary.GravityInput) (*primary.GravityReading, error) {
	m, err := parseMeasurement(input)
	if err != nil {
		return nil, err
	}

	sg, err := m.Canonical()
	if err != nil {
		return nil, err
	}

	plato := m.Value
	if m.Unit == gravity.UnitSG {
		plato = gravity.ToPlato(sg)
	}
	return &primary.GravityReading{SG: sg, Plato: plato}, nil
}

// ABV computes alcohol by volume from OG and FG. Plato inputs are converted
// to SG first.
func (s *GravityServiceImpl) ABV(og, fg primary.GravityInput) (*primary.ABVResult, error) {
	ogM, err := parseMeasurement(og)
	if err != nil {
		return nil, err
	}
	fgM, err := parseMeasurement(fg)
	if err != nil {
		return nil, err
	}

	ogSG, err := ogM.Canonical()
	if err != nil {
		return nil, err
	}
	fgSG, err := fgM.Canonical()
	if err != nil {
		return nil, err
	}

	pct, err := gravity.ComputeABV(ogSG, fgSG)
	if err != nil {
		return nil, err
	}
	return &primary.ABVResult{
		OG:      ogSG,
		FG:      fgSG,
		Percent: pct,
		Display: gravity.FormatPercent(gravity.RoundPercent(pct)),
	}, nil
}

func parseMeasurement(input primary.GravityInput) (gravity.Measurement, error) {
	unit, err := gravity.ParseUnit(input.Unit)
	if err != nil {
		return gravity.Measurement{}, invalidField("Unit", "oneof", "SG PLATO")
	}
	return gravity.Measurement{Value: input.Value, Unit: unit}, nil
}

// Ensure GravityServiceImpl implements the interface
var _ primary.GravityService = (*GravityServiceImpl)(nil)
