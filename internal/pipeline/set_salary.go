package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// salaryAttribute is the engine attribute set by the bulk call below.
const salaryAttribute = "fixed_monthly_salary"

// SetSalaryStep sets the recurring fixed salary via a bulk-attribute
// call. The engine's read path may lag the employee created moments
// earlier, so record-not-visible errors are retried a bounded number of
// times with linearly increasing delay. Validation errors fail
// immediately and are never retried.
type SetSalaryStep struct {
	api       payroll.Client
	attempts  int
	baseDelay time.Duration
}

// NewSetSalaryStep creates the step. attempts and baseDelay bound the
// propagation-lag retry loop; zero values fall back to 5 attempts at a
// 2s base delay.
func NewSetSalaryStep(api payroll.Client, attempts int, baseDelay time.Duration) *SetSalaryStep {
	if attempts <= 0 {
		attempts = 5
	}
	if baseDelay <= 0 {
		baseDelay = 2 * time.Second
	}
	return &SetSalaryStep{api: api, attempts: attempts, baseDelay: baseDelay}
}

func (s *SetSalaryStep) Name() string { return domain.StepSetSalary }

func (s *SetSalaryStep) Description() string {
	return "Set the recurring fixed salary on the payroll engine"
}

func (s *SetSalaryStep) ShouldSkip(pc *Context) bool {
	return pc.ExternalEmployeeID == ""
}

func (s *SetSalaryStep) Execute(ctx context.Context, pc *Context) error {
	if pc.Staff.MonthlySalaryCents <= 0 {
		pc.AddWarning(s.Name(), "salary_not_set",
			"staff member has no salary configured; skipping salary attribute", nil)
		return nil
	}

	amount := float64(pc.Staff.MonthlySalaryCents) / 100
	attrs := []payroll.AttributeUpdate{
		{Name: salaryAttribute, Value: amount},
	}

	var lastErr error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		err := s.api.UpdateAttributes(ctx, pc.ExternalEmployeeID, attrs)
		if err == nil {
			pc.SetDetail("salary_amount", amount)
			pc.SetDetail("attempts", attempt)
			return nil
		}

		if payroll.IsValidation(err) {
			return fmt.Errorf("salary attribute rejected: %w", err)
		}
		if !payroll.IsRecordNotVisible(err) {
			return fmt.Errorf("failed to set salary: %w", err)
		}

		lastErr = err
		if attempt == s.attempts {
			break
		}

		// Linear backoff while the employee record propagates.
		select {
		case <-time.After(s.baseDelay * time.Duration(attempt)):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("employee not visible after %d attempts: %w", s.attempts, lastErr)
}
