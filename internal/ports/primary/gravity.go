package primary

// GravityService defines the primary port for stateless gravity calculations.
type GravityService interface {
	// Convert converts a gravity value to both SG and Plato.
	Convert(input GravityInput) (*GravityReading, error)

	// ABV computes alcohol by volume from OG and FG in the same unit.
	ABV(og, fg GravityInput) (*ABVResult, error)
}

// GravityReading is a gravity value expressed in both scales.
type GravityReading struct {
	SG    float64
	Plato float64
}

// ABVResult contains a computed ABV. Percent carries full precision;
// Display is rounded to two decimals.
type ABVResult struct {
	OG      float64
	FG      float64
	Percent float64
	Display string
}
