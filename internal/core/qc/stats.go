// Package qc contains the pure quality-control rules for batches.
// This is part of the Functional Core - no I/O, only pure functions.
package qc

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Result is the outcome of a single QC test.
type Result string

const (
	ResultPass    Result = "PASS"
	ResultFail    Result = "FAIL"
	ResultPending Result = "PENDING"
)

// ParseResult parses a result name case-insensitively.
func ParseResult(s string) (Result, error) {
	r := Result(strings.ToUpper(strings.TrimSpace(s)))
	switch r {
	case ResultPass, ResultFail, ResultPending:
		return r, nil
	}
	return "", fmt.Errorf("unknown QC result %q (want PASS, FAIL or PENDING)", s)
}

// Test is one recorded QC test against a batch.
type Test struct {
	ID         string
	BatchID    string
	TestTypeID string
	Result     Result
	Value      *float64
	Notes      string
}

// Stats are pass/fail/pending counts for a set of tests.
type Stats struct {
	Total   int
	Passed  int
	Failed  int
	Pending int
	// PassRate is passed/total as a whole percentage. nil means no data,
	// which callers must not treat as 0%.
	PassRate *int
}

// NoData reports whether the stats cover no tests.
func (s Stats) NoData() bool {
	return s.Total == 0
}

// ComputeStats partitions tests by result.
func ComputeStats(tests []Test) Stats {
	var s Stats
	for _, t := range tests {
		s.Total++
		switch t.Result {
		case ResultPass:
			s.Passed++
		case ResultFail:
			s.Failed++
		default:
			// Unknown or empty results count as pending.
			s.Pending++
		}
	}

	if s.Total > 0 {
		rate := int(decimal.NewFromInt(int64(s.Passed)).
			Mul(decimal.NewFromInt(100)).
			Div(decimal.NewFromInt(int64(s.Total))).
			Round(0).
			IntPart())
		s.PassRate = &rate
	}
	return s
}

// FormatPassRate renders a pass rate for display, "n/a" when there is no data.
func FormatPassRate(rate *int) string {
	if rate == nil {
		return "n/a"
	}
	return fmt.Sprintf("%d%%", *rate)
}
