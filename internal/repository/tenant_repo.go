package repository

import (
	"context"
	"errors"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"gorm.io/gorm"
)

// TenantRepository handles tenant and payroll-connection lookups.
type TenantRepository struct {
	db *gorm.DB
}

// NewTenantRepository creates a new TenantRepository.
func NewTenantRepository(db *gorm.DB) *TenantRepository {
	return &TenantRepository{db: db}
}

// FindByID retrieves a tenant by ID. Returns nil without error when the
// tenant does not exist.
func (r *TenantRepository) FindByID(ctx context.Context, tenantID string) (*domain.Tenant, error) {
	var tenant domain.Tenant
	err := r.db.WithContext(ctx).First(&tenant, "id = ?", tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

// FindActiveConnection retrieves the tenant's active payroll connection.
// Returns nil without error when the tenant has no active connection.
func (r *TenantRepository) FindActiveConnection(ctx context.Context, tenantID string) (*domain.PayrollConnection, error) {
	var conn domain.PayrollConnection
	err := r.db.WithContext(ctx).
		First(&conn, "tenant_id = ? AND active = ?", tenantID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &conn, nil
}
