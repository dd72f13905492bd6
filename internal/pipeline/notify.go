package pipeline

import (
	"context"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/events"
)

// SendNotificationStep emits a setup-completed or setup-failed event.
// Never skipped and never fails the run: emission failures become
// warnings.
type SendNotificationStep struct {
	emitter events.Emitter
}

// NewSendNotificationStep creates the step.
func NewSendNotificationStep(emitter events.Emitter) *SendNotificationStep {
	return &SendNotificationStep{emitter: emitter}
}

func (s *SendNotificationStep) Name() string { return domain.StepSendNotification }

func (s *SendNotificationStep) Description() string {
	return "Notify the setup outcome"
}

// ShouldSkip always returns false: the outcome event is always emitted.
func (s *SendNotificationStep) ShouldSkip(pc *Context) bool {
	return false
}

func (s *SendNotificationStep) Execute(ctx context.Context, pc *Context) error {
	succeeded, lastCompleted := s.outcome(pc.Run)

	payload := map[string]interface{}{
		"tenant_id":            pc.TenantID,
		"staff_id":             pc.StaffID,
		"run_id":               pc.Run.ID,
		"external_employee_id": pc.ExternalEmployeeID,
	}

	name := events.EventSetupCompleted
	if !succeeded {
		name = events.EventSetupFailed
		// The last successfully completed step aids manual recovery.
		payload["last_completed_step"] = lastCompleted
		payload["error_count"] = len(pc.Run.Errors)
	}

	if err := s.emitter.Emit(ctx, name, payload); err != nil {
		pc.AddWarning(s.Name(), "notification_failed", err.Error(), nil)
	}
	return nil
}

// outcome reports whether every preceding step reached COMPLETED or
// SKIPPED with no errors recorded, and the name of the last completed
// step.
func (s *SendNotificationStep) outcome(run *domain.SetupRun) (bool, string) {
	succeeded := len(run.Errors) == 0

	for _, sr := range run.StepResults {
		if sr.Step == s.Name() {
			continue
		}
		if sr.Status != domain.StepStatusCompleted && sr.Status != domain.StepStatusSkipped {
			succeeded = false
		}
	}
	return succeeded, LastCompletedStep(run)
}

// LastCompletedStep returns the name of the last step that reached
// COMPLETED, in registration order. Used in failure events to aid
// manual recovery.
func LastCompletedStep(run *domain.SetupRun) string {
	last := ""
	for _, sr := range run.StepResults {
		if sr.Status == domain.StepStatusCompleted && sr.Step != domain.StepSendNotification {
			last = sr.Step
		}
	}
	return last
}
