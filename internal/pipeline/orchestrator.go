package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
)

// Orchestrator executes the ordered step registry for one run at a
// time. The registry is read-only after construction; each run gets its
// own Context, so the orchestrator holds no shared mutable state.
type Orchestrator struct {
	steps []Step
	log   *logger.Logger
}

// NewOrchestrator creates an orchestrator over the given steps in
// registration order.
func NewOrchestrator(log *logger.Logger, steps ...Step) *Orchestrator {
	return &Orchestrator{steps: steps, log: log}
}

// StepNames returns the registered step names in execution order.
func (o *Orchestrator) StepNames() []string {
	names := make([]string, len(o.steps))
	for i, s := range o.steps {
		names[i] = s.Name()
	}
	return names
}

// InitRun seeds a pending StepResult for every registered step on the
// run, in registration order.
func (o *Orchestrator) InitRun(run *domain.SetupRun) {
	run.StepResults = make(domain.StepResultList, len(o.steps))
	for i, s := range o.steps {
		run.StepResults[i] = domain.StepResult{
			Step:   s.Name(),
			Status: domain.StepStatusPending,
		}
	}
}

// Execute runs the steps in registration order. Steps already COMPLETED
// or SKIPPED on the run are left untouched, which is how resumed runs
// avoid re-running successful external side effects. On the first
// failure the loop stops and previously completed, rollback-capable
// steps are compensated in reverse order. The returned error is the
// failing step's error; run state carries the full picture.
func (o *Orchestrator) Execute(ctx context.Context, pc *Context) error {
	for i, step := range o.steps {
		sr := o.result(pc.Run, step.Name())

		if sr.Status == domain.StepStatusCompleted || sr.Status == domain.StepStatusSkipped {
			continue
		}

		if step.ShouldSkip(pc) {
			sr.Status = domain.StepStatusSkipped
			o.log.WithFields(logger.Fields{
				logger.FieldRunID: pc.Run.ID,
				logger.FieldStep:  step.Name(),
			}).Info("Step skipped")
			continue
		}

		start := time.Now()
		sr.Status = domain.StepStatusInProgress
		sr.StartedAt = &start

		o.log.WithFields(logger.Fields{
			logger.FieldRunID: pc.Run.ID,
			logger.FieldStep:  step.Name(),
		}).Info("Step started")

		pc.current = sr
		err := o.runStep(ctx, step, pc)
		pc.current = nil

		end := time.Now()
		sr.CompletedAt = &end
		sr.DurationMs = end.Sub(start).Milliseconds()

		if err != nil {
			sr.Status = domain.StepStatusFailed
			sr.Error = err.Error()
			if !errors.Is(err, ErrStepFailed) {
				pc.AddError(step.Name(), "step_execution_failed", err.Error(), nil)
			}

			o.log.WithFields(logger.Fields{
				logger.FieldRunID:      pc.Run.ID,
				logger.FieldStep:       step.Name(),
				logger.FieldDurationMs: sr.DurationMs,
			}).WithError(err).Error("Step failed")

			o.compensate(ctx, pc, i)
			return err
		}

		_, canRollback := step.(Compensable)
		sr.Status = domain.StepStatusCompleted
		sr.CanRollback = canRollback

		o.log.WithFields(logger.Fields{
			logger.FieldRunID:      pc.Run.ID,
			logger.FieldStep:       step.Name(),
			logger.FieldDurationMs: sr.DurationMs,
		}).Info("Step completed")
	}
	return nil
}

// ExecuteFromStep resets the named step and every step after it to
// PENDING, then re-executes the run. Steps before fromStep keep their
// completed state and are not re-run.
func (o *Orchestrator) ExecuteFromStep(ctx context.Context, pc *Context, fromStep string) error {
	fromIdx := -1
	for i, s := range o.steps {
		if s.Name() == fromStep {
			fromIdx = i
			break
		}
	}
	if fromIdx < 0 {
		return fmt.Errorf("unknown step %q", fromStep)
	}

	for i := fromIdx; i < len(o.steps); i++ {
		sr := o.result(pc.Run, o.steps[i].Name())
		sr.Reset()
	}

	return o.Execute(ctx, pc)
}

// runStep invokes the step, converting a panic into an error so a
// misbehaving step never propagates past the orchestrator.
func (o *Orchestrator) runStep(ctx context.Context, step Step, pc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("step panicked: %v", r)
		}
	}()
	return step.Execute(ctx, pc)
}

// compensate walks backward from the step before failedIdx and rolls
// back every completed, rollback-capable step. Rollback failures are
// recorded as warnings, never escalated, and compensation continues
// with the next earlier step regardless.
func (o *Orchestrator) compensate(ctx context.Context, pc *Context, failedIdx int) {
	for i := failedIdx - 1; i >= 0; i-- {
		step := o.steps[i]
		sr := o.result(pc.Run, step.Name())

		if sr.Status != domain.StepStatusCompleted || !sr.CanRollback {
			continue
		}

		comp, ok := step.(Compensable)
		if !ok {
			continue
		}

		o.log.WithFields(logger.Fields{
			logger.FieldRunID: pc.Run.ID,
			logger.FieldStep:  step.Name(),
		}).Info("Rolling back step")

		if err := o.runRollback(ctx, comp, pc); err != nil {
			pc.AddWarning(step.Name(), "rollback_failed", err.Error(), nil)
			o.log.WithFields(logger.Fields{
				logger.FieldRunID: pc.Run.ID,
				logger.FieldStep:  step.Name(),
			}).WithError(err).Warn("Step rollback failed")
			continue
		}

		sr.Status = domain.StepStatusRolledBack
	}
}

// runRollback invokes the compensating action with panic containment.
func (o *Orchestrator) runRollback(ctx context.Context, comp Compensable, pc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("rollback panicked: %v", r)
		}
	}()
	return comp.Rollback(ctx, pc)
}

// result returns the run's StepResult for the named step, appending a
// pending record if the run predates the step.
func (o *Orchestrator) result(run *domain.SetupRun, name string) *domain.StepResult {
	if sr := run.StepResult(name); sr != nil {
		return sr
	}
	run.StepResults = append(run.StepResults, domain.StepResult{
		Step:   name,
		Status: domain.StepStatusPending,
	})
	return &run.StepResults[len(run.StepResults)-1]
}
