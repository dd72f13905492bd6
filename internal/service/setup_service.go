package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
	"github.com/Smashkat12/crechebooks-sub005/internal/events"
	"github.com/Smashkat12/crechebooks-sub005/internal/logger"
	"github.com/Smashkat12/crechebooks-sub005/internal/pipeline"
	"github.com/google/uuid"
)

// Precondition errors. These are rejected before any run is created or
// mutated, so a failed precondition never leaves a partial run behind.
var (
	ErrStaffNotFound         = errors.New("staff member not found")
	ErrNoPayrollConnection   = errors.New("no active payroll connection for tenant")
	ErrSetupAlreadyCompleted = errors.New("a completed setup run already exists for this staff member")
	ErrRunNotFound           = errors.New("setup run not found")
	ErrRunAlreadyCompleted   = errors.New("setup run already completed; pass force to retry")
)

// StaffStore is the staff lookup the service depends on.
type StaffStore interface {
	FindByID(ctx context.Context, tenantID, staffID string) (*domain.Staff, error)
}

// ConnectionStore resolves a tenant's active payroll connection.
type ConnectionStore interface {
	FindActiveConnection(ctx context.Context, tenantID string) (*domain.PayrollConnection, error)
}

// RunStore persists setup runs (the run-log).
type RunStore interface {
	Create(ctx context.Context, run *domain.SetupRun) error
	MarkInProgress(ctx context.Context, run *domain.SetupRun) error
	MarkFinished(ctx context.Context, run *domain.SetupRun) error
	FindByID(ctx context.Context, tenantID, runID string) (*domain.SetupRun, error)
	FindByStaffID(ctx context.Context, tenantID, staffID string) (*domain.SetupRun, error)
	Delete(ctx context.Context, tenantID, runID string) error
}

// SetupRequest is the caller's input to SetupEmployee.
type SetupRequest struct {
	StaffID                string                    `json:"staff_id"`
	TriggeredBy            string                    `json:"triggered_by"`
	ProfileID              string                    `json:"profile_id,omitempty"`
	LeaveEntitlements      *domain.LeaveEntitlements `json:"leave_entitlements,omitempty"`
	TaxSettings            *domain.TaxSettings       `json:"tax_settings,omitempty"`
	AdditionalCalculations []domain.CalculationItem  `json:"additional_calculations,omitempty"`
}

// SetupResult summarizes one provisioning run.
type SetupResult struct {
	Success            bool             `json:"success"`
	RunID              string           `json:"run_id"`
	ExternalEmployeeID string           `json:"external_employee_id,omitempty"`
	Status             domain.RunStatus `json:"status"`
	StepsCompleted     []string         `json:"steps_completed"`
	StepsFailed        []string         `json:"steps_failed"`
	Errors             domain.IssueList `json:"errors"`
	Warnings           domain.IssueList `json:"warnings"`
	DurationMs         int64            `json:"duration_ms"`
}

// StatusSummary is the read-side view of a staff member's setup state.
type StatusSummary struct {
	RunID              string                `json:"run_id"`
	StaffID            string                `json:"staff_id"`
	Status             domain.RunStatus      `json:"status"`
	Progress           int                   `json:"progress"`
	CurrentStep        string                `json:"current_step,omitempty"`
	NextStep           string                `json:"next_step,omitempty"`
	ExternalEmployeeID string                `json:"external_employee_id,omitempty"`
	StepResults        domain.StepResultList `json:"step_results"`
	StartedAt          *time.Time            `json:"started_at,omitempty"`
	CompletedAt        *time.Time            `json:"completed_at,omitempty"`
}

// SetupService is the entry point for employee payroll provisioning. It
// validates preconditions, builds the pipeline context, delegates to the
// orchestrator, and persists the resulting run-log.
//
// Concurrency safety across runs lives here, not in the orchestrator:
// any existing non-completed run for a staff member is deleted before a
// fresh run starts, and a completed run blocks a fresh run unless
// explicitly retried. That yields a single writer per staff member
// without locks.
type SetupService struct {
	staff   StaffStore
	tenants ConnectionStore
	runs    RunStore
	orch    *pipeline.Orchestrator
	emitter events.Emitter
	log     *logger.Logger
}

// NewSetupService creates a new SetupService.
func NewSetupService(
	staff StaffStore,
	tenants ConnectionStore,
	runs RunStore,
	orch *pipeline.Orchestrator,
	emitter events.Emitter,
	log *logger.Logger,
) *SetupService {
	return &SetupService{
		staff:   staff,
		tenants: tenants,
		runs:    runs,
		orch:    orch,
		emitter: emitter,
		log:     log,
	}
}

// SetupEmployee provisions a staff member on the external payroll
// engine. Fails fast, before creating a run, when the staff member does
// not exist in the tenant, the tenant has no active payroll connection,
// or a completed run already exists.
func (s *SetupService) SetupEmployee(ctx context.Context, tenantID string, req *SetupRequest) (*SetupResult, error) {
	staff, err := s.staff.FindByID(ctx, tenantID, req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff member: %w", err)
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, req.StaffID)
	}

	conn, err := s.tenants.FindActiveConnection(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up payroll connection: %w", err)
	}
	if conn == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoPayrollConnection, tenantID)
	}

	existing, err := s.runs.FindByStaffID(ctx, tenantID, req.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing run: %w", err)
	}
	if existing != nil {
		if existing.Status == domain.RunStatusCompleted {
			return nil, fmt.Errorf("%w: run %s", ErrSetupAlreadyCompleted, existing.ID)
		}
		// A prior incomplete run is superseded by this one.
		if err := s.runs.Delete(ctx, tenantID, existing.ID); err != nil {
			return nil, fmt.Errorf("failed to delete stale run %s: %w", existing.ID, err)
		}
	}

	run := &domain.SetupRun{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		StaffID:     req.StaffID,
		Status:      domain.RunStatusPending,
		TriggeredBy: req.TriggeredBy,
	}
	s.orch.InitRun(run)

	if err := s.runs.Create(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create run: %w", err)
	}
	if err := s.runs.MarkInProgress(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to mark run in progress: %w", err)
	}

	pc := s.buildContext(staff, run, req)

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldTenantID: tenantID,
		logger.FieldStaffID:  req.StaffID,
		logger.FieldRunID:    run.ID,
	})
	logger.CtxInfo(ctx, "Starting payroll setup run")

	return s.finish(ctx, run, pc, s.orch.Execute(ctx, pc))
}

// RetrySetup re-executes a failed or partial run. With no explicit
// fromStep, execution resumes at the first step that did not complete;
// steps before it keep their state and are not re-run. A completed run
// is rejected, without mutation, unless force is set.
func (s *SetupService) RetrySetup(ctx context.Context, tenantID, runID, fromStep string, force bool) (*SetupResult, error) {
	run, err := s.runs.FindByID(ctx, tenantID, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if run.Status == domain.RunStatusCompleted && !force {
		return nil, fmt.Errorf("%w: %s", ErrRunAlreadyCompleted, runID)
	}

	staff, err := s.staff.FindByID(ctx, tenantID, run.StaffID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up staff member: %w", err)
	}
	if staff == nil {
		return nil, fmt.Errorf("%w: %s", ErrStaffNotFound, run.StaffID)
	}

	if fromStep == "" {
		fromStep = s.resumePoint(run)
	}

	s.pruneIssues(run, fromStep)
	run.CompletedAt = nil
	if err := s.runs.MarkInProgress(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to mark run in progress: %w", err)
	}

	pc := s.buildContext(staff, run, &SetupRequest{StaffID: run.StaffID})
	// Resume with the external IDs the original run already obtained so
	// completed side effects are never repeated.
	pc.ExternalEmployeeID = run.ExternalEmployeeID
	pc.ProfileName = run.ProfileAssigned

	ctx = logger.WithFields(ctx, logger.Fields{
		logger.FieldTenantID: tenantID,
		logger.FieldStaffID:  run.StaffID,
		logger.FieldRunID:    run.ID,
	})
	logger.CtxInfo(ctx, "Retrying payroll setup run from step %s", fromStep)

	return s.finish(ctx, run, pc, s.orch.ExecuteFromStep(ctx, pc, fromStep))
}

// GetSetupStatus returns the status summary for a staff member's
// current run, including a 0-100 progress percentage and the
// current/next pending step.
func (s *SetupService) GetSetupStatus(ctx context.Context, tenantID, staffID string) (*StatusSummary, error) {
	run, err := s.runs.FindByStaffID(ctx, tenantID, staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up run: %w", err)
	}
	if run == nil {
		return nil, fmt.Errorf("%w: no run for staff %s", ErrRunNotFound, staffID)
	}

	summary := &StatusSummary{
		RunID:              run.ID,
		StaffID:            run.StaffID,
		Status:             run.Status,
		ExternalEmployeeID: run.ExternalEmployeeID,
		StepResults:        run.StepResults,
		StartedAt:          run.StartedAt,
		CompletedAt:        run.CompletedAt,
	}

	total := len(run.StepResults)
	if total == 0 {
		return summary, nil
	}

	done := 0
	for _, sr := range run.StepResults {
		switch sr.Status {
		case domain.StepStatusCompleted, domain.StepStatusSkipped:
			done++
		case domain.StepStatusInProgress:
			if summary.CurrentStep == "" {
				summary.CurrentStep = sr.Step
			}
		case domain.StepStatusPending:
			if summary.NextStep == "" {
				summary.NextStep = sr.Step
			}
		}
	}
	summary.Progress = done * 100 / total

	return summary, nil
}

// buildContext assembles the per-run pipeline context from the staff
// record and the caller's request.
func (s *SetupService) buildContext(staff *domain.Staff, run *domain.SetupRun, req *SetupRequest) *pipeline.Context {
	return &pipeline.Context{
		TenantID:           run.TenantID,
		StaffID:            run.StaffID,
		Staff:              staff.Snapshot(),
		Run:                run,
		RequestedProfileID: req.ProfileID,
		Leave:              req.LeaveEntitlements,
		Tax:                req.TaxSettings,
		Calculations:       req.AdditionalCalculations,
	}
}

// finish persists the final run state, emits the failure event when the
// pipeline aborted before its notification step, and builds the result
// summary. The orchestrator's error is already reflected in the run
// state, so it is not re-raised.
func (s *SetupService) finish(ctx context.Context, run *domain.SetupRun, pc *pipeline.Context, execErr error) (*SetupResult, error) {
	if err := s.runs.MarkFinished(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to persist run: %w", err)
	}

	if execErr != nil {
		s.emitAbortEvent(ctx, run)
	}

	result := s.buildResult(run)
	logger.CtxInfo(ctx, "Payroll setup run finished: status=%s, completed=%d, failed=%d",
		run.Status, len(result.StepsCompleted), len(result.StepsFailed))
	return result, nil
}

// emitAbortEvent publishes the setup-failed event for runs that aborted
// before reaching the notification step. Failure here is logged, never
// raised.
func (s *SetupService) emitAbortEvent(ctx context.Context, run *domain.SetupRun) {
	if sr := run.StepResult(domain.StepSendNotification); sr != nil && sr.Status != domain.StepStatusPending {
		return
	}

	payload := map[string]interface{}{
		"tenant_id":            run.TenantID,
		"staff_id":             run.StaffID,
		"run_id":               run.ID,
		"external_employee_id": run.ExternalEmployeeID,
		"last_completed_step":  pipeline.LastCompletedStep(run),
		"error_count":          len(run.Errors),
	}
	if err := s.emitter.Emit(ctx, events.EventSetupFailed, payload); err != nil {
		logger.CtxWarn(ctx, "Failed to emit setup-failed event: %v", err)
	}
}

// resumePoint picks the default retry step: the first step that did not
// complete or get skipped.
func (s *SetupService) resumePoint(run *domain.SetupRun) string {
	for _, sr := range run.StepResults {
		switch sr.Status {
		case domain.StepStatusCompleted, domain.StepStatusSkipped:
			continue
		default:
			return sr.Step
		}
	}
	// Forced retry of a fully completed run starts over.
	if len(run.StepResults) > 0 {
		return run.StepResults[0].Step
	}
	return domain.StepCreateEmployee
}

// pruneIssues drops errors and warnings belonging to steps that are
// about to be reset, so a successful retry does not inherit stale
// issues.
func (s *SetupService) pruneIssues(run *domain.SetupRun, fromStep string) {
	reset := map[string]bool{}
	seen := false
	for _, name := range s.orch.StepNames() {
		if name == fromStep {
			seen = true
		}
		if seen {
			reset[name] = true
		}
	}

	var errs domain.IssueList
	for _, issue := range run.Errors {
		if !reset[issue.Step] {
			errs = append(errs, issue)
		}
	}
	run.Errors = errs

	var warns domain.IssueList
	for _, issue := range run.Warnings {
		if !reset[issue.Step] {
			warns = append(warns, issue)
		}
	}
	run.Warnings = warns
}

// buildResult summarizes the run for the caller.
func (s *SetupService) buildResult(run *domain.SetupRun) *SetupResult {
	result := &SetupResult{
		Success:            run.Status == domain.RunStatusCompleted,
		RunID:              run.ID,
		ExternalEmployeeID: run.ExternalEmployeeID,
		Status:             run.Status,
		Errors:             run.Errors,
		Warnings:           run.Warnings,
		StepsCompleted:     []string{},
		StepsFailed:        []string{},
	}

	for _, sr := range run.StepResults {
		switch sr.Status {
		case domain.StepStatusCompleted:
			result.StepsCompleted = append(result.StepsCompleted, sr.Step)
		case domain.StepStatusFailed:
			result.StepsFailed = append(result.StepsFailed, sr.Step)
		}
	}

	if run.StartedAt != nil && run.CompletedAt != nil {
		result.DurationMs = run.CompletedAt.Sub(*run.StartedAt).Milliseconds()
	}

	return result
}
