package payroll

// EmployeeRequest is the payload for creating or updating an employee
// record in the external payroll engine.
type EmployeeRequest struct {
	CompanyID      string  `json:"company_id"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	IDNumber       string  `json:"id_number,omitempty"`
	Email          string  `json:"email,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date,omitempty"`
	TaxNumber      string  `json:"tax_number,omitempty"`
	BankName       string  `json:"bank_name,omitempty"`
	BankAccount    string  `json:"bank_account,omitempty"`
	BankBranchCode string  `json:"bank_branch_code,omitempty"`
	HoursPerWeek   float64 `json:"hours_per_week,omitempty"`
}

// Employee is the engine's employee record.
type Employee struct {
	ID            string `json:"id"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	IDNumber      string `json:"id_number"`
	Email         string `json:"email"`
	DefaultWaveID string `json:"default_wave_id"`
}

// AttributeUpdate is one named attribute in a bulk attribute call.
type AttributeUpdate struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// Profile is a pay profile available on the engine: a named bundle of
// payroll configuration assignable to an employee.
type Profile struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// ProfileMapping is an employee-to-profile assignment on the engine.
type ProfileMapping struct {
	ID          string `json:"id"`
	EmployeeID  string `json:"employee_id"`
	ProfileID   string `json:"profile_id"`
	ProfileName string `json:"profile_name"`
}

// TaxFieldsRequest patches an employee's tax configuration. StatusCode
// uses the engine's single-letter vocabulary.
type TaxFieldsRequest struct {
	StatusCode      string `json:"status_code"`
	TaxNumber       string `json:"tax_number,omitempty"`
	DirectiveNumber string `json:"directive_number,omitempty"`
}

// CalculationCode is one entry of the engine's calculation whitelist.
type CalculationCode struct {
	Code string `json:"code"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// LeaveType is a leave category known to the engine.
type LeaveType struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// LeaveBalance is an employee's balance for one leave type. Balances
// only materialize on the engine after the first payroll run.
type LeaveBalance struct {
	TypeID   string  `json:"type_id"`
	TypeName string  `json:"type_name"`
	Days     float64 `json:"days"`
}
