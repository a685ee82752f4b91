package qc

import (
	"testing"

	"github.com/example/brewctl/internal/core/batch"
)

func ptr(v float64) *float64 { return &v }

func tests(results ...Result) []Test {
	out := make([]Test, len(results))
	for i, r := range results {
		out[i] = Test{ID: string(rune('a' + i)), BatchID: "b-1", Result: r}
	}
	return out
}

func TestComputeStats(t *testing.T) {
	cases := []struct {
		name     string
		input    []Test
		wantRate *int
		wantP    int
		wantF    int
		wantN    int
	}{
		{name: "no tests is no data", input: nil},
		{name: "all pass", input: tests(ResultPass, ResultPass), wantRate: intPtr(100), wantP: 2},
		{name: "all pending is zero percent", input: tests(ResultPending), wantRate: intPtr(0), wantN: 1},
		{name: "two of three rounds up", input: tests(ResultPass, ResultPass, ResultFail), wantRate: intPtr(67), wantP: 2, wantF: 1},
		{name: "one of three rounds down", input: tests(ResultPass, ResultFail, ResultPending), wantRate: intPtr(33), wantP: 1, wantF: 1, wantN: 1},
		{name: "half rounds away from zero", input: tests(ResultPass, ResultFail, ResultPass, ResultFail, ResultPass, ResultFail, ResultPass, ResultFail), wantRate: intPtr(50), wantP: 4, wantF: 4},
		{name: "unknown results count as pending", input: tests(ResultPass, Result(""), Result("MAYBE")), wantRate: intPtr(33), wantP: 1, wantN: 2},
		{name: "one of eight", input: tests(ResultPass, ResultFail, ResultFail, ResultFail, ResultFail, ResultFail, ResultFail, ResultFail), wantRate: intPtr(13), wantP: 1, wantF: 7},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			s := ComputeStats(tt.input)
			if s.Total != len(tt.input) || s.Passed != tt.wantP || s.Failed != tt.wantF || s.Pending != tt.wantN {
				t.Errorf("counts = %+v", s)
			}
			switch {
			case tt.wantRate == nil && s.PassRate != nil:
				t.Errorf("PassRate = %d, want no data", *s.PassRate)
			case tt.wantRate != nil && (s.PassRate == nil || *s.PassRate != *tt.wantRate):
				t.Errorf("PassRate = %v, want %d", s.PassRate, *tt.wantRate)
			}
			if s.NoData() != (tt.wantRate == nil) {
				t.Errorf("NoData() = %v", s.NoData())
			}
		})
	}
}

func intPtr(v int) *int { return &v }

func TestFormatPassRate(t *testing.T) {
	if got := FormatPassRate(nil); got != "n/a" {
		t.Errorf("FormatPassRate(nil) = %q", got)
	}
	if got := FormatPassRate(intPtr(0)); got != "0%" {
		t.Errorf("FormatPassRate(0) = %q", got)
	}
}

func TestParseResult(t *testing.T) {
	if r, err := ParseResult("pass"); err != nil || r != ResultPass {
		t.Errorf("ParseResult(pass) = %q, %v", r, err)
	}
	if _, err := ParseResult("ok"); err == nil {
		t.Error("ParseResult(ok) should fail")
	}
}

func TestEvaluateBand(t *testing.T) {
	ph := TestType{Name: "pH", MinValue: ptr(4.0), MaxValue: ptr(4.6)}
	floorOnly := TestType{Name: "CO2", MinValue: ptr(2.2)}

	cases := []struct {
		name  string
		value float64
		tt    TestType
		want  Band
	}{
		{"inside", 4.3, ph, BandWithin},
		{"lower bound inclusive", 4.0, ph, BandWithin},
		{"upper bound inclusive", 4.6, ph, BandWithin},
		{"below", 3.9, ph, BandBelow},
		{"above", 4.7, ph, BandAbove},
		{"open upper bound", 9, floorOnly, BandWithin},
		{"no limits", 1, TestType{Name: "taste"}, BandUnbounded},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateBand(tt.value, tt.tt); got != tt.want {
				t.Errorf("EvaluateBand(%v) = %s, want %s", tt.value, got, tt.want)
			}
		})
	}
}

func TestSuggestResult(t *testing.T) {
	ph := TestType{MinValue: ptr(4.0), MaxValue: ptr(4.6)}

	if got := SuggestResult(nil, ph); got != ResultPending {
		t.Errorf("no value = %s, want PENDING", got)
	}
	if got := SuggestResult(ptr(4.2), ph); got != ResultPass {
		t.Errorf("in band = %s, want PASS", got)
	}
	if got := SuggestResult(ptr(5.0), ph); got != ResultFail {
		t.Errorf("out of band = %s, want FAIL", got)
	}
	if got := SuggestResult(ptr(5.0), TestType{}); got != ResultPending {
		t.Errorf("no limits = %s, want PENDING", got)
	}
}

func TestCanEnterStatus(t *testing.T) {
	strict := Policy{BlockPackagingOnFail: true, RequirePassBeforeFinish: true}

	cases := []struct {
		name        string
		ctx         ReadinessContext
		wantAllowed bool
		wantReason  string
	}{
		{
			name:        "no policy never blocks",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusPackaging, Stats: Stats{Total: 1, Failed: 1}},
			wantAllowed: true,
		},
		{
			name:        "failed test blocks packaging",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusPackaging, Stats: Stats{Total: 2, Failed: 1, Passed: 1}, Policy: strict},
			wantAllowed: false,
			wantReason:  "cannot package batch BATCH-001: 1 QC test(s) failed",
		},
		{
			name:        "pending tests do not block packaging",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusPackaging, Stats: Stats{Total: 1, Pending: 1}, Policy: strict},
			wantAllowed: true,
		},
		{
			name:        "finish without any test",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusFinished, Policy: strict},
			wantAllowed: false,
			wantReason:  "cannot finish batch BATCH-001: no passing QC test recorded",
		},
		{
			name:        "finish with pending test",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusFinished, Stats: Stats{Total: 2, Passed: 1, Pending: 1}, Policy: strict},
			wantAllowed: false,
			wantReason:  "cannot finish batch BATCH-001: 0 failed and 1 pending QC test(s)",
		},
		{
			name:        "finish with all passing",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusFinished, Stats: Stats{Total: 2, Passed: 2}, Policy: strict},
			wantAllowed: true,
		},
		{
			name:        "reason falls back to batch id",
			ctx:         ReadinessContext{BatchID: "b-1", Target: batch.StatusFinished, Policy: strict},
			wantAllowed: false,
			wantReason:  "cannot finish batch b-1: no passing QC test recorded",
		},
		{
			name:        "cancel is never blocked",
			ctx:         ReadinessContext{BatchID: "b-1", BatchNumber: "BATCH-001", Target: batch.StatusCancelled, Stats: Stats{Total: 1, Failed: 1}, Policy: strict},
			wantAllowed: true,
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			result := CanEnterStatus(tt.ctx)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}
