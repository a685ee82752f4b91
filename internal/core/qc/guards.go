package qc

import (
	"fmt"

	"github.com/example/brewctl/internal/core/batch"
)

// Policy holds the deployment-level readiness rules. The zero value
// enforces nothing.
type Policy struct {
	BlockPackagingOnFail    bool
	RequirePassBeforeFinish bool
}

// Enabled reports whether any rule is switched on.
func (p Policy) Enabled() bool {
	return p.BlockPackagingOnFail || p.RequirePassBeforeFinish
}

// ReadinessContext provides the context for readiness guards.
// Populated by the caller with the batch's current QC stats.
// BatchNumber names the batch in refusal reasons; BatchID is used when it is empty.
type ReadinessContext struct {
	BatchID     string
	BatchNumber string
	Target      batch.Status
	Stats       Stats
	Policy      Policy
}

func (c ReadinessContext) batchName() string {
	if c.BatchNumber != "" {
		return c.BatchNumber
	}
	return c.BatchID
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error returns the guard result as an error if not allowed, nil otherwise.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CanEnterStatus evaluates whether QC results allow a batch to enter Target.
// Rules:
// - BlockPackagingOnFail: PACKAGING is refused while any test has FAILED
// - RequirePassBeforeFinish: FINISHED needs at least one PASS and no FAIL or PENDING
// - CANCELLED is never blocked
func CanEnterStatus(ctx ReadinessContext) GuardResult {
	switch ctx.Target {
	case batch.StatusPackaging:
		if ctx.Policy.BlockPackagingOnFail && ctx.Stats.Failed > 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot package batch %s: %d QC test(s) failed", ctx.batchName(), ctx.Stats.Failed),
			}
		}
	case batch.StatusFinished:
		if !ctx.Policy.RequirePassBeforeFinish {
			break
		}
		if ctx.Stats.Passed == 0 {
			return GuardResult{
				Allowed: false,
				Reason:  fmt.Sprintf("cannot finish batch %s: no passing QC test recorded", ctx.batchName()),
			}
		}
		if ctx.Stats.Failed > 0 || ctx.Stats.Pending > 0 {
			return GuardResult{
				Allowed: false,
				Reason: fmt.Sprintf("cannot finish batch %s: %d failed and %d pending QC test(s)",
					ctx.batchName(), ctx.Stats.Failed, ctx.Stats.Pending),
			}
		}
	}
	return GuardResult{Allowed: true}
}
