package domain

import "time"

// PayrollAdjustment is a locally persisted additional earning/deduction
// created by the add-calculations pipeline step. Its ID doubles as the
// rollback handle for compensating a failed run.
type PayrollAdjustment struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	TenantID string `gorm:"type:text;not null;index:idx_adjustments_tenant_staff" json:"tenant_id"`
	StaffID  string `gorm:"type:text;not null;index:idx_adjustments_tenant_staff" json:"staff_id"`
	RunID    string `gorm:"type:text;index" json:"run_id"`

	Code        string          `gorm:"type:text;not null" json:"code"`
	Name        string          `gorm:"type:text" json:"name"`
	Type        CalculationType `gorm:"type:text" json:"type"`
	AmountCents int64           `json:"amount_cents"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for PayrollAdjustment.
func (PayrollAdjustment) TableName() string {
	return "payroll_adjustments"
}
