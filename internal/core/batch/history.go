package batch

import "fmt"

// ValidateHistory checks that a batch's history is a legal lifecycle path
// starting at PLANNED: each entry continues from the previous one, forward
// moves advance one state, and CANCELLED appears at most once, as the last entry.
func ValidateHistory(entries []HistoryEntry) error {
	current := InitialStatus()
	for i, e := range entries {
		if e.From != current {
			return fmt.Errorf("history entry %d starts at %s, expected %s", i, e.From, current)
		}
		if !canReach(e.From, e.To) {
			return fmt.Errorf("history entry %d moves %s → %s, which is not an allowed transition", i, e.From, e.To)
		}
		if i > 0 && e.At.Before(entries[i-1].At) {
			return fmt.Errorf("history entry %d is timestamped before entry %d", i, i-1)
		}
		current = e.To
	}
	return nil
}

// Replay returns the status reached by applying entries from PLANNED.
func Replay(entries []HistoryEntry) Status {
	if len(entries) == 0 {
		return InitialStatus()
	}
	return entries[len(entries)-1].To
}
