// Package batch contains the pure business logic for the batch production lifecycle.
// This is part of the Functional Core - no I/O, only pure functions.
package batch

import (
	"fmt"
	"strings"
)

// Status represents the possible states of a batch.
type Status string

const (
	StatusPlanned      Status = "PLANNED"
	StatusBrewing      Status = "BREWING"
	StatusFermenting   Status = "FERMENTING"
	StatusConditioning Status = "CONDITIONING"
	StatusPackaging    Status = "PACKAGING"
	StatusFinished     Status = "FINISHED"
	StatusCancelled    Status = "CANCELLED"
)

// Progression is the forward order a batch moves through.
var Progression = []Status{
	StatusPlanned,
	StatusBrewing,
	StatusFermenting,
	StatusConditioning,
	StatusPackaging,
	StatusFinished,
}

// allowedEdges is the complete transition table. A batch moves forward one
// state at a time and may be cancelled from any non-terminal state.
var allowedEdges = map[Status][]Status{
	StatusPlanned:      {StatusBrewing, StatusCancelled},
	StatusBrewing:      {StatusFermenting, StatusCancelled},
	StatusFermenting:   {StatusConditioning, StatusCancelled},
	StatusConditioning: {StatusPackaging, StatusCancelled},
	StatusPackaging:    {StatusFinished, StatusCancelled},
	StatusFinished:     nil,
	StatusCancelled:    nil,
}

// ParseStatus parses a status name, case-insensitively.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := allowedEdges[st]; !ok {
		return "", fmt.Errorf("unknown batch status %q", s)
	}
	return st, nil
}

// InitialStatus returns the status of a newly planned batch.
func InitialStatus() Status {
	return StatusPlanned
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := allowedEdges[s]
	return ok
}

// IsTerminal reports whether no transition may leave s.
func (s Status) IsTerminal() bool {
	return s == StatusFinished || s == StatusCancelled
}

// IsActive reports whether the batch is physically in production.
func (s Status) IsActive() bool {
	switch s {
	case StatusBrewing, StatusFermenting, StatusConditioning, StatusPackaging:
		return true
	}
	return false
}

// Rank returns the position of s in Progression, or -1 for CANCELLED and
// unknown statuses.
func (s Status) Rank() int {
	for i, p := range Progression {
		if p == s {
			return i
		}
	}
	return -1
}

// AllowedTargets returns the statuses reachable from s in one transition.
func AllowedTargets(s Status) []Status {
	return append([]Status(nil), allowedEdges[s]...)
}

// Next returns the next forward status, or false if s has none.
func Next(s Status) (Status, bool) {
	r := s.Rank()
	if r < 0 || r >= len(Progression)-1 {
		return "", false
	}
	return Progression[r+1], true
}

func canReach(from, to Status) bool {
	for _, s := range allowedEdges[from] {
		if s == to {
			return true
		}
	}
	return false
}
