package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// VerifySetupStep independently re-fetches the employee, profile
// mappings, and leave balances from the engine and cross-checks them
// against the context's expectations. Never skipped; does not declare
// rollback.
type VerifySetupStep struct {
	api payroll.Client
}

// NewVerifySetupStep creates the step.
func NewVerifySetupStep(api payroll.Client) *VerifySetupStep {
	return &VerifySetupStep{api: api}
}

func (s *VerifySetupStep) Name() string { return domain.StepVerifySetup }

func (s *VerifySetupStep) Description() string {
	return "Verify the employee setup against the payroll engine"
}

// ShouldSkip always returns false: verification runs on every pipeline
// pass.
func (s *VerifySetupStep) ShouldSkip(pc *Context) bool {
	return false
}

func (s *VerifySetupStep) Execute(ctx context.Context, pc *Context) error {
	if pc.ExternalEmployeeID == "" {
		pc.AddError(s.Name(), "verification_failed",
			"no external employee ID to verify", nil)
		return fmt.Errorf("no external employee to verify: %w", ErrStepFailed)
	}

	emp, err := s.api.GetEmployee(ctx, pc.ExternalEmployeeID)
	if err != nil {
		return fmt.Errorf("failed to fetch employee for verification: %w", err)
	}

	var mismatches []string
	if !strings.EqualFold(emp.FirstName, pc.Staff.FirstName) ||
		!strings.EqualFold(emp.LastName, pc.Staff.LastName) {
		mismatches = append(mismatches,
			fmt.Sprintf("name mismatch: engine has %q %q", emp.FirstName, emp.LastName))
	}
	if pc.Staff.IDNumber != "" && emp.IDNumber != pc.Staff.IDNumber {
		mismatches = append(mismatches, "ID number mismatch")
	}

	mappings, err := s.api.GetProfileMappings(ctx, pc.ExternalEmployeeID)
	if err != nil {
		return fmt.Errorf("failed to fetch profile mappings for verification: %w", err)
	}
	switch {
	case len(mappings) == 0:
		mismatches = append(mismatches, "no profile mapping present")
	case pc.ProfileName != "":
		found := false
		for _, m := range mappings {
			if strings.EqualFold(m.ProfileName, pc.ProfileName) {
				found = true
				break
			}
		}
		if !found {
			mismatches = append(mismatches,
				fmt.Sprintf("no profile mapping matches expected profile %q", pc.ProfileName))
		}
	}

	balances, err := s.api.GetLeaveBalances(ctx, pc.ExternalEmployeeID)
	switch {
	case err != nil && payroll.IsRecordNotVisible(err):
		pc.AddWarning(s.Name(), "balances_not_available",
			"leave balances not yet materialized on the payroll engine", nil)
	case err != nil:
		return fmt.Errorf("failed to fetch leave balances for verification: %w", err)
	case len(balances) == 0:
		pc.AddWarning(s.Name(), "balances_not_available",
			"payroll engine returned no leave balances yet", nil)
	default:
		pc.SetDetail("balances_found", len(balances))
	}

	if len(mismatches) > 0 {
		pc.AddError(s.Name(), "verification_failed",
			strings.Join(mismatches, "; "),
			domain.JSONMap{"mismatches": mismatches})
		return fmt.Errorf("setup verification failed: %w", ErrStepFailed)
	}

	pc.SetDetail("verified", true)
	return nil
}
