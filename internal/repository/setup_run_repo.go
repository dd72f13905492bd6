package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"gorm.io/gorm"
)

// SetupRunRepository persists payroll setup runs (the run-log).
type SetupRunRepository struct {
	db *gorm.DB
}

// NewSetupRunRepository creates a new SetupRunRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *SetupRunRepository: repository instance bound to db.
func NewSetupRunRepository(db *gorm.DB) *SetupRunRepository {
	return &SetupRunRepository{db: db}
}

// Create inserts a new setup run record.
func (r *SetupRunRepository) Create(ctx context.Context, run *domain.SetupRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

// Save persists the current state of a setup run.
func (r *SetupRunRepository) Save(ctx context.Context, run *domain.SetupRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// MarkInProgress transitions a run to IN_PROGRESS and stamps its start time.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - run: run to transition; mutated in place.
// Returns:
//   - error: non-nil if the update fails.
func (r *SetupRunRepository) MarkInProgress(ctx context.Context, run *domain.SetupRun) error {
	now := time.Now()
	run.Status = domain.RunStatusInProgress
	run.StartedAt = &now
	return r.db.WithContext(ctx).Save(run).Error
}

// MarkFinished stamps the completion time, derives the final status from
// the run's step results, and persists the full run state.
func (r *SetupRunRepository) MarkFinished(ctx context.Context, run *domain.SetupRun) error {
	now := time.Now()
	run.CompletedAt = &now
	run.Status = run.DeriveStatus()
	return r.db.WithContext(ctx).Save(run).Error
}

// FindByID retrieves a run by ID within a tenant.
// Returns nil without error when no run exists.
func (r *SetupRunRepository) FindByID(ctx context.Context, tenantID, runID string) (*domain.SetupRun, error) {
	var run domain.SetupRun
	err := r.db.WithContext(ctx).
		First(&run, "id = ? AND tenant_id = ?", runID, tenantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// FindByStaffID retrieves the current (non-superseded) run for a staff
// member within a tenant. Returns nil without error when none exists.
func (r *SetupRunRepository) FindByStaffID(ctx context.Context, tenantID, staffID string) (*domain.SetupRun, error) {
	var run domain.SetupRun
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND staff_id = ?", tenantID, staffID).
		Order("created_at DESC").
		First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &run, nil
}

// Delete removes a run by ID.
func (r *SetupRunRepository) Delete(ctx context.Context, tenantID, runID string) error {
	return r.db.WithContext(ctx).
		Delete(&domain.SetupRun{}, "id = ? AND tenant_id = ?", runID, tenantID).Error
}
