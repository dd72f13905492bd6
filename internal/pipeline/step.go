package pipeline

import (
	"context"
	"errors"
)

// ErrStepFailed signals an expected failure the step has already
// recorded as a structured error on the run. The orchestrator marks the
// step FAILED without appending a second error record.
var ErrStepFailed = errors.New("step failed")

// Step is one unit of the provisioning pipeline. Steps run in
// registration order; each may depend on context state written by an
// earlier step.
type Step interface {
	// Name returns the stable key used in StepResult records.
	Name() string

	// Description returns a human-readable summary of the step.
	Description() string

	// ShouldSkip is evaluated before execution; a true return marks the
	// step SKIPPED without running it.
	ShouldSkip(pc *Context) bool

	// Execute performs the step's remote operation. A nil return marks
	// the step COMPLETED. Returning ErrStepFailed (possibly wrapped)
	// marks it FAILED using the error already recorded on the run; any
	// other error is additionally recorded as a structured error.
	Execute(ctx context.Context, pc *Context) error
}

// Compensable is implemented by steps whose work can be undone during
// compensation. Rollback failures are downgraded to warnings by the
// orchestrator; compensation is best-effort.
type Compensable interface {
	Rollback(ctx context.Context, pc *Context) error
}
