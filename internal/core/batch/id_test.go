package batch

import "testing"

func TestGenerateBatchNumber(t *testing.T) {
	tests := []struct {
		name       string
		currentMax int
		want       string
	}{
		{"first batch", 0, "BATCH-001"},
		{"next in sequence", 41, "BATCH-042"},
		{"past three digits", 999, "BATCH-1000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateBatchNumber(tt.currentMax); got != tt.want {
				t.Errorf("GenerateBatchNumber(%d) = %q, want %q", tt.currentMax, got, tt.want)
			}
		})
	}
}

func TestParseBatchNumber(t *testing.T) {
	tests := []struct {
		input string
		want  int
	}{
		{"BATCH-001", 1},
		{"BATCH-042", 42},
		{"BATCH-1000", 1000},
		{"batch-001", -1},
		{"LOT-001", -1},
		{"", -1},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseBatchNumber(tt.input); got != tt.want {
				t.Errorf("ParseBatchNumber(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestBatchNumberRoundTrip(t *testing.T) {
	for n := 0; n < 20; n++ {
		if got := ParseBatchNumber(GenerateBatchNumber(n)); got != n+1 {
			t.Errorf("round trip of %d gave %d", n, got)
		}
	}
}
