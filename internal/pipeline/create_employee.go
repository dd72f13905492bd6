package pipeline

import (
	"context"
	"fmt"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// CreateEmployeeStep creates (or updates) the staff member on the
// external payroll engine and stores the resulting external IDs in the
// context for every later step.
//
// The step is idempotent: a resumed run that already carries an
// external employee ID skips it entirely. Rollback data (the external
// ID) is recorded for audit, but the engine offers no employee
// deletion, so the step is not compensable.
type CreateEmployeeStep struct {
	api payroll.Client
}

// NewCreateEmployeeStep creates the step.
func NewCreateEmployeeStep(api payroll.Client) *CreateEmployeeStep {
	return &CreateEmployeeStep{api: api}
}

func (s *CreateEmployeeStep) Name() string { return domain.StepCreateEmployee }

func (s *CreateEmployeeStep) Description() string {
	return "Create or update the employee record on the payroll engine"
}

func (s *CreateEmployeeStep) ShouldSkip(pc *Context) bool {
	return pc.ExternalEmployeeID != ""
}

func (s *CreateEmployeeStep) Execute(ctx context.Context, pc *Context) error {
	staff := pc.Staff

	req := &payroll.EmployeeRequest{
		FirstName:      staff.FirstName,
		LastName:       staff.LastName,
		IDNumber:       staff.IDNumber,
		Email:          staff.Email,
		StartDate:      staff.StartDate.Format("2006-01-02"),
		TaxNumber:      staff.TaxNumber,
		BankName:       staff.BankName,
		BankAccount:    staff.BankAccount,
		BankBranchCode: staff.BankBranch,
		HoursPerWeek:   staff.HoursPerWeek,
	}
	if staff.EndDate != nil {
		req.EndDate = staff.EndDate.Format("2006-01-02")
	}

	emp, err := s.api.CreateOrUpdateEmployee(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create employee on payroll engine: %w", err)
	}

	pc.ExternalEmployeeID = emp.ID
	pc.PayWaveID = emp.DefaultWaveID
	pc.Run.ExternalEmployeeID = emp.ID

	pc.SetDetail("external_employee_id", emp.ID)
	pc.SetDetail("pay_wave_id", emp.DefaultWaveID)
	// Recorded for audit only; employee deletion on the engine is
	// unsupported, so compensation never consumes this.
	pc.SetRollbackData("external_employee_id", emp.ID)

	return nil
}
