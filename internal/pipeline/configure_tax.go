package pipeline

import (
	"context"
	"fmt"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/payroll"
)

// taxStatusCodes maps the internal tax-status vocabulary to the
// engine's single-letter codes. This mapping is a tested contract with
// the engine; unrecognized values default to resident.
var taxStatusCodes = map[domain.TaxStatus]string{
	domain.TaxStatusResident:    "A",
	domain.TaxStatusDirective:   "D",
	domain.TaxStatusSeasonal:    "S",
	domain.TaxStatusNonResident: "N",
}

// TaxStatusCode returns the engine code for a tax status, defaulting
// unrecognized values to the resident code.
func TaxStatusCode(status domain.TaxStatus) (string, bool) {
	if code, ok := taxStatusCodes[status]; ok {
		return code, true
	}
	return taxStatusCodes[domain.TaxStatusResident], false
}

// ConfigureTaxStep patches the employee's tax configuration. Skipped
// when neither explicit tax settings nor a staff tax number is
// available. Values on the engine are overwritten, not restored, so the
// step is not rollback-capable.
type ConfigureTaxStep struct {
	api payroll.Client
}

// NewConfigureTaxStep creates the step.
func NewConfigureTaxStep(api payroll.Client) *ConfigureTaxStep {
	return &ConfigureTaxStep{api: api}
}

func (s *ConfigureTaxStep) Name() string { return domain.StepConfigureTax }

func (s *ConfigureTaxStep) Description() string {
	return "Configure the employee's tax settings"
}

func (s *ConfigureTaxStep) ShouldSkip(pc *Context) bool {
	if pc.ExternalEmployeeID == "" {
		return true
	}
	return pc.Tax == nil && pc.Staff.TaxNumber == ""
}

func (s *ConfigureTaxStep) Execute(ctx context.Context, pc *Context) error {
	settings := pc.Tax
	if settings == nil {
		settings = &domain.TaxSettings{
			Status:    domain.TaxStatusResident,
			TaxNumber: pc.Staff.TaxNumber,
		}
		pc.Tax = settings
	}
	if settings.TaxNumber == "" {
		settings.TaxNumber = pc.Staff.TaxNumber
	}

	code, recognized := TaxStatusCode(settings.Status)
	if !recognized {
		pc.AddWarning(s.Name(), "unrecognized_tax_status",
			fmt.Sprintf("tax status %q not recognized; defaulting to resident", settings.Status), nil)
	}

	req := &payroll.TaxFieldsRequest{
		StatusCode:      code,
		TaxNumber:       settings.TaxNumber,
		DirectiveNumber: settings.DirectiveNumber,
	}
	if err := s.api.PatchTaxFields(ctx, pc.ExternalEmployeeID, req); err != nil {
		return fmt.Errorf("failed to configure tax fields: %w", err)
	}

	pc.Run.TaxConfigured = true
	pc.SetDetail("status_code", code)
	return nil
}
