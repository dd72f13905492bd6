package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// RunStatus represents the overall status of a payroll setup run.
// It is always derived from the run's step results, never set directly,
// except for the PENDING/IN_PROGRESS transitions at run start.
type RunStatus string

const (
	RunStatusPending    RunStatus = "pending"
	RunStatusInProgress RunStatus = "in_progress"
	RunStatusCompleted  RunStatus = "completed"
	RunStatusPartial    RunStatus = "partial"
	RunStatusFailed     RunStatus = "failed"
	RunStatusRolledBack RunStatus = "rolled_back"
)

// StepStatus represents the status of a single pipeline step.
type StepStatus string

const (
	StepStatusPending    StepStatus = "pending"
	StepStatusInProgress StepStatus = "in_progress"
	StepStatusCompleted  StepStatus = "completed"
	StepStatusFailed     StepStatus = "failed"
	StepStatusSkipped    StepStatus = "skipped"
	StepStatusRolledBack StepStatus = "rolled_back"
)

// Pipeline step names, in registration order. These are stable keys used
// in StepResult records and in retry requests.
const (
	StepCreateEmployee   = "create_employee"
	StepSetSalary        = "set_salary"
	StepAssignProfile    = "assign_profile"
	StepSetupLeave       = "setup_leave"
	StepConfigureTax     = "configure_tax"
	StepAddCalculations  = "add_calculations"
	StepVerifySetup      = "verify_setup"
	StepSendNotification = "send_notification"
)

// StepResult captures the outcome of one pipeline step within a run.
type StepResult struct {
	Step         string     `json:"step"`
	Status       StepStatus `json:"status"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	DurationMs   int64      `json:"duration_ms"`
	Error        string     `json:"error,omitempty"`
	Details      JSONMap    `json:"details,omitempty"`
	CanRollback  bool       `json:"can_rollback"`
	RollbackData JSONMap    `json:"rollback_data,omitempty"`
}

// Reset returns the step result to its pristine pending state, clearing
// timestamps, duration, error and rollback bookkeeping.
func (r *StepResult) Reset() {
	r.Status = StepStatusPending
	r.StartedAt = nil
	r.CompletedAt = nil
	r.DurationMs = 0
	r.Error = ""
	r.Details = nil
	r.CanRollback = false
	r.RollbackData = nil
}

// Issue is a structured error or warning record attached to a run.
type Issue struct {
	Step      string    `json:"step"`
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Details   JSONMap   `json:"details,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// StepResultList stores the ordered step results as JSON in the database.
type StepResultList []StepResult

// Value implements the driver.Valuer interface for database serialization.
func (l StepResultList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (l *StepResultList) Scan(value interface{}) error {
	if value == nil {
		*l = StepResultList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StepResultList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// IssueList stores error/warning records as JSON in the database.
type IssueList []Issue

// Value implements the driver.Valuer interface for database serialization.
func (l IssueList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
func (l *IssueList) Scan(value interface{}) error {
	if value == nil {
		*l = IssueList{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan IssueList")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, l)
}

// SetupRun is the persisted record of one payroll provisioning attempt
// for one staff member in one tenant, including per-step status history.
type SetupRun struct {
	ID       string `gorm:"type:text;primaryKey" json:"id"`
	TenantID string `gorm:"type:text;not null;index:idx_setup_runs_tenant_staff" json:"tenant_id"`
	StaffID  string `gorm:"type:text;not null;index:idx_setup_runs_tenant_staff" json:"staff_id"`

	Status RunStatus `gorm:"type:text;index:idx_setup_runs_status;default:pending" json:"status"`

	// Denormalized summary fields for fast status queries.
	ExternalEmployeeID string `gorm:"type:text" json:"external_employee_id,omitempty"`
	ProfileAssigned    string `gorm:"type:text" json:"profile_assigned,omitempty"`
	LeaveInitialized   bool   `json:"leave_initialized"`
	TaxConfigured      bool   `json:"tax_configured"`
	CalculationsAdded  int    `json:"calculations_added"`

	StepResults StepResultList `gorm:"type:text" json:"step_results"`
	Errors      IssueList      `gorm:"type:text" json:"errors"`
	Warnings    IssueList      `gorm:"type:text" json:"warnings"`

	TriggeredBy string     `gorm:"type:text" json:"triggered_by,omitempty"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for SetupRun.
func (SetupRun) TableName() string {
	return "payroll_setup_runs"
}

// StepResult returns the result record for the named step, or nil.
func (r *SetupRun) StepResult(step string) *StepResult {
	for i := range r.StepResults {
		if r.StepResults[i].Step == step {
			return &r.StepResults[i]
		}
	}
	return nil
}

// DeriveStatus computes the run status from its step results.
// The run status is always a pure function of step statuses:
//   - IN_PROGRESS if any step is in progress
//   - else ROLLED_BACK if any step was rolled back
//   - else COMPLETED if every step completed or was skipped
//   - else, on any failure, PARTIAL when at least one other step
//     completed, FAILED otherwise
//   - else PENDING
func (r *SetupRun) DeriveStatus() RunStatus {
	return DeriveRunStatus(r.StepResults)
}

// DeriveRunStatus derives the overall run status from step results.
func DeriveRunStatus(results []StepResult) RunStatus {
	if len(results) == 0 {
		return RunStatusPending
	}

	var completed, skipped, failed, rolledBack int
	for _, sr := range results {
		switch sr.Status {
		case StepStatusInProgress:
			return RunStatusInProgress
		case StepStatusCompleted:
			completed++
		case StepStatusSkipped:
			skipped++
		case StepStatusFailed:
			failed++
		case StepStatusRolledBack:
			rolledBack++
		}
	}

	switch {
	case rolledBack > 0:
		return RunStatusRolledBack
	case completed+skipped == len(results):
		return RunStatusCompleted
	case failed > 0 && completed > 0:
		return RunStatusPartial
	case failed > 0:
		return RunStatusFailed
	default:
		return RunStatusPending
	}
}
