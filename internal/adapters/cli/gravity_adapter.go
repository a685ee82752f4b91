package cli

import (
	"fmt"
	"io"

	"github.com/example/brewctl/internal/core/gravity"
	"github.com/example/brewctl/internal/ports/primary"
)

// GravityAdapter is a thin adapter over the stateless GravityService.
type GravityAdapter struct {
	service primary.GravityService
	out     io.Writer
}

// NewGravityAdapter creates a new GravityAdapter with the given service.
func NewGravityAdapter(service primary.GravityService, out io.Writer) *GravityAdapter {
	return &GravityAdapter{
		service: service,
		out:     out,
	}
}

// Convert prints a gravity value in both scales.
func (a *GravityAdapter) Convert(input primary.GravityInput) error {
	r, err := a.service.Convert(input)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "SG:    %s\n", gravity.FormatSG(r.SG))
	fmt.Fprintf(a.out, "Plato: %s °P\n", formatOneDecimal(r.Plato))
	return nil
}

// ABV prints the ABV for an OG/FG pair.
func (a *GravityAdapter) ABV(og, fg primary.GravityInput) error {
	r, err := a.service.ABV(og, fg)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "OG %s, FG %s → ABV %s\n", gravity.FormatSG(r.OG), gravity.FormatSG(r.FG), r.Display)
	return nil
}
