package domain

import "time"

// Tenant represents one creche/organization account.
type Tenant struct {
	ID        string    `gorm:"type:text;primaryKey" json:"id"`
	Name      string    `gorm:"type:text;not null" json:"name"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Tenant.
func (Tenant) TableName() string {
	return "tenants"
}

// PayrollConnection holds a tenant's credentials for the external payroll
// engine. A tenant must have an active connection before any staff member
// can be provisioned.
type PayrollConnection struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	TenantID string `gorm:"type:text;not null;uniqueIndex:idx_payroll_conn_tenant" json:"tenant_id"`

	ExternalCompanyID string `gorm:"type:text" json:"external_company_id"`
	APIKey            string `gorm:"type:text" json:"-"`
	Active            bool   `gorm:"default:false;index" json:"active"`

	ConnectedAt *time.Time `json:"connected_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for PayrollConnection.
func (PayrollConnection) TableName() string {
	return "payroll_connections"
}
