package batch

import "fmt"

// GenerateBatchNumber generates a batch number from the current max number.
// The format is BATCH-XXX where XXX is a zero-padded 3-digit number.
func GenerateBatchNumber(currentMax int) string {
	return fmt.Sprintf("BATCH-%03d", currentMax+1)
}

// ParseBatchNumber extracts the numeric portion from a batch number.
// Returns -1 if the format is invalid.
func ParseBatchNumber(number string) int {
	var num int
	_, err := fmt.Sscanf(number, "BATCH-%d", &num)
	if err != nil {
		return -1
	}
	return num
}
