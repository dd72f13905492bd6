package domain

// LeaveEntitlements holds the pro-rata statutory leave entitlements
// computed for a staff member. All values are derived, never edited
// directly.
type LeaveEntitlements struct {
	AnnualDays               float64 `json:"annual_days"`
	SickDays                 float64 `json:"sick_days"`
	FamilyResponsibilityDays float64 `json:"family_responsibility_days"`
	MaternityMonths          int     `json:"maternity_months"`
}

// TaxStatus is the internal tax-status vocabulary. The configure-tax
// pipeline step maps these onto the external payroll engine's
// single-letter codes.
type TaxStatus string

const (
	TaxStatusResident    TaxStatus = "resident"
	TaxStatusDirective   TaxStatus = "directive"
	TaxStatusSeasonal    TaxStatus = "seasonal"
	TaxStatusNonResident TaxStatus = "non_resident"
)

// TaxSettings is the caller-supplied tax configuration for a run.
type TaxSettings struct {
	Status          TaxStatus `json:"status"`
	TaxNumber       string    `json:"tax_number,omitempty"`
	DirectiveNumber string    `json:"directive_number,omitempty"`
}

// CalculationType classifies an additional payroll line item.
type CalculationType string

const (
	CalculationEarning   CalculationType = "earning"
	CalculationDeduction CalculationType = "deduction"
)

// CalculationItem is a caller-supplied additional earning/deduction
// line item to be provisioned alongside the employee.
type CalculationItem struct {
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Type        CalculationType `json:"type"`
	AmountCents int64           `json:"amount_cents"`
}
