package domain

import "time"

// EmploymentType classifies a staff member's engagement.
type EmploymentType string

const (
	EmploymentFullTime  EmploymentType = "full_time"
	EmploymentPartTime  EmploymentType = "part_time"
	EmploymentCasual    EmploymentType = "casual"
	EmploymentFixedTerm EmploymentType = "fixed_term"
)

// Staff represents an employed staff member of a tenant.
type Staff struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	TenantID string `gorm:"type:text;not null;index:idx_staff_tenant" json:"tenant_id"`

	FirstName string `gorm:"type:text;not null" json:"first_name"`
	LastName  string `gorm:"type:text;not null" json:"last_name"`
	IDNumber  string `gorm:"type:text" json:"id_number"`
	Email     string `gorm:"type:text" json:"email"`
	Phone     string `gorm:"type:text" json:"phone,omitempty"`

	Position       string         `gorm:"type:text" json:"position"`
	EmploymentType EmploymentType `gorm:"type:text;default:full_time" json:"employment_type"`
	StartDate      time.Time      `json:"start_date"`
	EndDate        *time.Time     `json:"end_date,omitempty"`

	// Monthly salary in cents to avoid floating point drift in storage.
	MonthlySalaryCents int64   `json:"monthly_salary_cents"`
	HoursPerWeek       float64 `json:"hours_per_week"`

	TaxNumber   string `gorm:"type:text" json:"tax_number,omitempty"`
	BankName    string `gorm:"type:text" json:"bank_name,omitempty"`
	BankAccount string `gorm:"type:text" json:"bank_account,omitempty"`
	BankBranch  string `gorm:"type:text" json:"bank_branch,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Staff.
func (Staff) TableName() string {
	return "staff"
}

// Snapshot captures the staff fields the provisioning pipeline reads.
// The snapshot is immutable for the duration of a run.
func (s *Staff) Snapshot() StaffSnapshot {
	return StaffSnapshot{
		ID:                 s.ID,
		TenantID:           s.TenantID,
		FirstName:          s.FirstName,
		LastName:           s.LastName,
		IDNumber:           s.IDNumber,
		Email:              s.Email,
		Position:           s.Position,
		EmploymentType:     s.EmploymentType,
		StartDate:          s.StartDate,
		EndDate:            s.EndDate,
		MonthlySalaryCents: s.MonthlySalaryCents,
		HoursPerWeek:       s.HoursPerWeek,
		TaxNumber:          s.TaxNumber,
		BankName:           s.BankName,
		BankAccount:        s.BankAccount,
		BankBranch:         s.BankBranch,
	}
}

// StaffSnapshot is the read-only projection of a staff record used by
// the setup pipeline.
type StaffSnapshot struct {
	ID                 string
	TenantID           string
	FirstName          string
	LastName           string
	IDNumber           string
	Email              string
	Position           string
	EmploymentType     EmploymentType
	StartDate          time.Time
	EndDate            *time.Time
	MonthlySalaryCents int64
	HoursPerWeek       float64
	TaxNumber          string
	BankName           string
	BankAccount        string
	BankBranch         string
}

// FullName returns the staff member's display name.
func (s StaffSnapshot) FullName() string {
	return s.FirstName + " " + s.LastName
}
