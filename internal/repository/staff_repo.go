package repository

import (
	"context"
	"errors"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"gorm.io/gorm"
)

// StaffRepository handles staff record lookups for the setup service.
type StaffRepository struct {
	db *gorm.DB
}

// NewStaffRepository creates a new StaffRepository.
func NewStaffRepository(db *gorm.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// FindByID retrieves a staff member by ID within a tenant.
// Returns nil without error when no staff member exists.
func (r *StaffRepository) FindByID(ctx context.Context, tenantID, staffID string) (*domain.Staff, error) {
	var staff domain.Staff
	err := r.db.WithContext(ctx).
		First(&staff, "id = ? AND tenant_id = ?", staffID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

// Create inserts a new staff record.
func (r *StaffRepository) Create(ctx context.Context, staff *domain.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

// Update updates an existing staff record.
func (r *StaffRepository) Update(ctx context.Context, staff *domain.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

// ListByTenant retrieves staff for a tenant with pagination.
func (r *StaffRepository) ListByTenant(ctx context.Context, tenantID string, limit, offset int) ([]domain.Staff, error) {
	var staff []domain.Staff
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Limit(limit).
		Offset(offset).
		Order("created_at DESC").
		Find(&staff).Error; err != nil {
		return nil, err
	}
	return staff, nil
}
