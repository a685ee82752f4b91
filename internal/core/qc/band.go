package qc

// TestType describes a kind of QC test and its acceptable value band.
// A nil bound is open on that side.
type TestType struct {
	ID          string
	Name        string
	Category    string
	Unit        string
	MinValue    *float64
	MaxValue    *float64
	Description string
}

// Band is where a measured value falls relative to a test type's limits.
type Band string

const (
	BandWithin    Band = "WITHIN"
	BandBelow     Band = "BELOW"
	BandAbove     Band = "ABOVE"
	BandUnbounded Band = "UNBOUNDED" // test type defines no limits
)

// EvaluateBand places value against tt's limits. Bounds are inclusive.
func EvaluateBand(value float64, tt TestType) Band {
	if tt.MinValue == nil && tt.MaxValue == nil {
		return BandUnbounded
	}
	if tt.MinValue != nil && value < *tt.MinValue {
		return BandBelow
	}
	if tt.MaxValue != nil && value > *tt.MaxValue {
		return BandAbove
	}
	return BandWithin
}

// SuggestResult derives a result from a measured value.
// Rules:
// - No value or no limits: PENDING (a person has to decide)
// - Value inside the band: PASS
// - Value outside the band: FAIL
//
// Recording a test never calls this implicitly; the caller opts in.
func SuggestResult(value *float64, tt TestType) Result {
	if value == nil {
		return ResultPending
	}
	switch EvaluateBand(*value, tt) {
	case BandWithin:
		return ResultPass
	case BandBelow, BandAbove:
		return ResultFail
	default:
		return ResultPending
	}
}
