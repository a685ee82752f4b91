package batch

import (
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/example/brewctl/internal/core/gravity"
)

// Batch is one physical production run as the lifecycle sees it.
// All gravity values are canonical SG.
type Batch struct {
	ID          string
	BatchNumber string
	RecipeID    string
	LocationID  string
	Status      Status

	BrewDate              time.Time
	FermentationStartDate *time.Time
	PackagedDate          *time.Time
	FinishedDate          *time.Time
	CancelledDate         *time.Time

	ExpectedVolume float64
	ActualVolume   *float64

	OG  *float64
	FG  *float64
	ABV *float64 // derived from OG and FG, never set directly

	Notes   string
	Version int
}

// Field names recorded in history entries.
const (
	FieldOG                    = "og"
	FieldFG                    = "fg"
	FieldABV                   = "abv"
	FieldActualVolume          = "actual_volume"
	FieldFermentationStartDate = "fermentation_start_date"
	FieldPackagedDate          = "packaged_date"
	FieldFinishedDate          = "finished_date"
	FieldCancelledDate         = "cancelled_date"
)

// fieldUnlockedAt is the policy table for measured fields: each may be
// recorded on the transition into its status or any later forward transition.
var fieldUnlockedAt = map[string]Status{
	FieldOG:           StatusBrewing,
	FieldActualVolume: StatusFermenting,
	FieldFG:           StatusPackaging,
}

// Payload carries the optional values supplied with a transition request.
type Payload struct {
	OG           *gravity.Measurement
	FG           *gravity.Measurement
	ActualVolume *float64
	Notes        string
	Actor        string
}

// FieldChange records one field mutation caused by a transition.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// HistoryEntry is an immutable audit record of an applied transition.
type HistoryEntry struct {
	From    Status
	To      Status
	At      time.Time
	Changes []FieldChange
	Notes   string
	Actor   string
}

// TransitionResult contains the outcome of a transition.
// NoOp is set when the requested status was already current; Entry is nil then.
type TransitionResult struct {
	Batch Batch
	Entry *HistoryEntry
	NoOp  bool
}

// CreateParams are the values needed to plan a new batch.
type CreateParams struct {
	ID             string
	BatchNumber    string
	RecipeID       string
	LocationID     string
	BrewDate       time.Time
	ExpectedVolume float64
	Notes          string
}

// NewBatch returns a PLANNED batch.
// Rules:
// - Brew date is required
// - Expected volume must be a finite number above zero
func NewBatch(p CreateParams) (Batch, error) {
	if p.BrewDate.IsZero() {
		return Batch{}, invalidBatch("brew date is required")
	}
	if math.IsNaN(p.ExpectedVolume) || math.IsInf(p.ExpectedVolume, 0) || p.ExpectedVolume <= 0 {
		return Batch{}, invalidBatch("expected volume must be greater than zero (got %v)", p.ExpectedVolume)
	}

	return Batch{
		ID:             p.ID,
		BatchNumber:    p.BatchNumber,
		RecipeID:       p.RecipeID,
		LocationID:     p.LocationID,
		Status:         InitialStatus(),
		BrewDate:       p.BrewDate.UTC(),
		ExpectedVolume: p.ExpectedVolume,
		Notes:          p.Notes,
	}, nil
}

// Transition applies a status transition to b and returns the updated batch.
// b itself is not modified. The caller passes the current time to enable testing.
//
// Failures are typed: *TransitionError for unreachable targets or rejected
// payload fields, *gravity.ValueError for malformed gravity input, and
// *gravity.OrderError when FG would not be below OG.
func Transition(b Batch, target Status, p Payload, now time.Time) (TransitionResult, error) {
	guard := CanTransition(TransitionContext{BatchID: b.ID, From: b.Status, To: target})
	if !guard.Allowed {
		return TransitionResult{}, &TransitionError{BatchID: b.ID, From: b.Status, To: target, Reason: guard.Reason}
	}

	if b.Status == target {
		return TransitionResult{Batch: clone(b), NoOp: true}, nil
	}

	now = now.UTC()
	next := clone(b)
	var changes []FieldChange

	reject := func(format string, args ...any) error {
		return &TransitionError{BatchID: b.ID, From: b.Status, To: target, Reason: fmt.Sprintf(format, args...)}
	}

	if p.OG != nil {
		sg, err := p.OG.Canonical()
		if err != nil {
			return TransitionResult{}, err
		}
		changed, err := recordOnce(&next.OG, sg, FieldOG, target, reject)
		if err != nil {
			return TransitionResult{}, err
		}
		if changed {
			changes = append(changes, FieldChange{Field: FieldOG, New: formatFloat(sg)})
		}
	}

	if p.FG != nil {
		sg, err := p.FG.Canonical()
		if err != nil {
			return TransitionResult{}, err
		}
		changed, err := recordOnce(&next.FG, sg, FieldFG, target, reject)
		if err != nil {
			return TransitionResult{}, err
		}
		if changed {
			changes = append(changes, FieldChange{Field: FieldFG, New: formatFloat(sg)})
		}
	}

	if p.ActualVolume != nil {
		v := *p.ActualVolume
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return TransitionResult{}, reject("actual volume must be greater than zero (got %v)", v)
		}
		changed, err := recordOnce(&next.ActualVolume, v, FieldActualVolume, target, reject)
		if err != nil {
			return TransitionResult{}, err
		}
		if changed {
			changes = append(changes, FieldChange{Field: FieldActualVolume, New: formatFloat(v)})
		}
	}

	if next.OG != nil && next.FG != nil && !(*next.OG > *next.FG) {
		return TransitionResult{}, &gravity.OrderError{OG: *next.OG, FG: *next.FG}
	}

	switch target {
	case StatusFermenting:
		if next.FermentationStartDate == nil {
			next.FermentationStartDate = &now
			changes = append(changes, FieldChange{Field: FieldFermentationStartDate, New: formatTime(now)})
		}
	case StatusPackaging:
		if next.PackagedDate == nil {
			next.PackagedDate = &now
			changes = append(changes, FieldChange{Field: FieldPackagedDate, New: formatTime(now)})
		}
	case StatusFinished:
		next.FinishedDate = &now
		changes = append(changes, FieldChange{Field: FieldFinishedDate, New: formatTime(now)})
	case StatusCancelled:
		next.CancelledDate = &now
		changes = append(changes, FieldChange{Field: FieldCancelledDate, New: formatTime(now)})
	}

	if next.OG != nil && next.FG != nil {
		abv, err := gravity.ComputeABV(*next.OG, *next.FG)
		if err != nil {
			return TransitionResult{}, err
		}
		if next.ABV == nil || *next.ABV != abv {
			change := FieldChange{Field: FieldABV, New: formatFloat(abv)}
			if next.ABV != nil {
				change.Old = formatFloat(*next.ABV)
			}
			next.ABV = &abv
			changes = append(changes, change)
		}
	}

	next.Status = target

	return TransitionResult{
		Batch: next,
		Entry: &HistoryEntry{
			From:    b.Status,
			To:      target,
			At:      now,
			Changes: changes,
			Notes:   p.Notes,
			Actor:   p.Actor,
		},
	}, nil
}

// Unlocks reports whether a transition into target accepts a value for field.
func Unlocks(target Status, field string) bool {
	unlock, ok := fieldUnlockedAt[field]
	if !ok || target == StatusCancelled {
		return false
	}
	return target.Rank() >= unlock.Rank()
}

// recordOnce sets a set-once field. Re-supplying the stored value is a no-op.
func recordOnce(dst **float64, v float64, field string, target Status, reject func(string, ...any) error) (bool, error) {
	if *dst != nil {
		if **dst == v {
			return false, nil
		}
		return false, reject("%s is already recorded as %s", field, formatFloat(**dst))
	}
	if !Unlocks(target, field) {
		return false, reject("%s cannot be recorded when entering %s (unlocked at %s)", field, target, fieldUnlockedAt[field])
	}
	*dst = &v
	return true, nil
}

func clone(b Batch) Batch {
	c := b
	c.FermentationStartDate = cloneTime(b.FermentationStartDate)
	c.PackagedDate = cloneTime(b.PackagedDate)
	c.FinishedDate = cloneTime(b.FinishedDate)
	c.CancelledDate = cloneTime(b.CancelledDate)
	c.ActualVolume = cloneFloat(b.ActualVolume)
	c.OG = cloneFloat(b.OG)
	c.FG = cloneFloat(b.FG)
	c.ABV = cloneFloat(b.ABV)
	return c
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneTime(p *time.Time) *time.Time {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
