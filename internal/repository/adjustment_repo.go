package repository

import (
	"context"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"gorm.io/gorm"
)

// AdjustmentRepository persists payroll adjustments created by the
// add-calculations pipeline step.
type AdjustmentRepository struct {
	db *gorm.DB
}

// NewAdjustmentRepository creates a new AdjustmentRepository.
func NewAdjustmentRepository(db *gorm.DB) *AdjustmentRepository {
	return &AdjustmentRepository{db: db}
}

// Create inserts a new payroll adjustment record.
func (r *AdjustmentRepository) Create(ctx context.Context, adj *domain.PayrollAdjustment) error {
	return r.db.WithContext(ctx).Create(adj).Error
}

// Delete removes a payroll adjustment by ID.
func (r *AdjustmentRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.PayrollAdjustment{}, "id = ?", id).Error
}

// ListByRun retrieves adjustments created during a specific run.
func (r *AdjustmentRepository) ListByRun(ctx context.Context, runID string) ([]domain.PayrollAdjustment, error) {
	var adjustments []domain.PayrollAdjustment
	if err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Find(&adjustments).Error; err != nil {
		return nil, err
	}
	return adjustments, nil
}
