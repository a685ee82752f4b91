package batch

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// TransitionContext provides context for status transition guards.
type TransitionContext struct {
	BatchID string
	From    Status
	To      Status
}

// EditContext provides context for detail edit guards.
type EditContext struct {
	BatchID string
	Status  Status
}

// CanTransition evaluates whether a batch may move between two statuses.
// Rules:
// - Target must be a known status
// - Requesting the current status is allowed (no-op)
// - Terminal statuses (FINISHED, CANCELLED) cannot be left
// - Forward moves advance exactly one state; CANCELLED is reachable from any non-terminal state
func CanTransition(ctx TransitionContext) GuardResult {
	if !ctx.To.Valid() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("unknown target status %q", ctx.To),
		}
	}

	if ctx.From == ctx.To {
		return GuardResult{Allowed: true}
	}

	if ctx.From.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("batch %s is %s and cannot change status", ctx.BatchID, ctx.From),
		}
	}

	if !canReach(ctx.From, ctx.To) {
		next, _ := Next(ctx.From)
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("%s can only move to %s or %s", ctx.From, next, StatusCancelled),
		}
	}

	return GuardResult{Allowed: true}
}

// CanEditDetails evaluates whether free-form batch details may be edited.
// Rules:
// - FINISHED and CANCELLED batches are frozen
func CanEditDetails(ctx EditContext) GuardResult {
	if ctx.Status.IsTerminal() {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("cannot edit batch %s: status is %s", ctx.BatchID, ctx.Status),
		}
	}

	return GuardResult{Allowed: true}
}
