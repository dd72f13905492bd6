package pipeline

import (
	"time"

	"github.com/Smashkat12/crechebooks-sub005/internal/domain"
)

// Context is the mutable state threaded through all steps of one
// provisioning run. It is transient: the SetupRun it wraps is the
// persisted projection. One Context exists per run; no step may retain
// a reference beyond its own execution.
type Context struct {
	TenantID string
	StaffID  string

	// Staff is an immutable snapshot of the staff record taken when the
	// run was built.
	Staff domain.StaffSnapshot

	// Run is the persisted run-log being built. Steps append errors,
	// warnings and step results through the helpers below.
	Run *domain.SetupRun

	// Accumulators written by steps and read by later steps.
	ExternalEmployeeID string
	PayWaveID          string
	ProfileID          string
	ProfileName        string
	Leave              *domain.LeaveEntitlements
	Tax                *domain.TaxSettings

	// Caller-supplied inputs.
	RequestedProfileID string
	Calculations       []domain.CalculationItem

	// current is the step result under execution; set by the
	// orchestrator around each step's Execute call.
	current *domain.StepResult
}

// AddError appends a structured error record to the run.
func (c *Context) AddError(step, code, message string, details domain.JSONMap) {
	c.Run.Errors = append(c.Run.Errors, domain.Issue{
		Step:      step,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

// AddWarning appends a structured warning record to the run. Warnings
// never abort the run.
func (c *Context) AddWarning(step, code, message string, details domain.JSONMap) {
	c.Run.Warnings = append(c.Run.Warnings, domain.Issue{
		Step:      step,
		Code:      code,
		Message:   message,
		Details:   details,
		Timestamp: time.Now(),
	})
}

// SetDetail records a free-form diagnostic value on the step result
// currently executing.
func (c *Context) SetDetail(key string, value interface{}) {
	if c.current == nil {
		return
	}
	if c.current.Details == nil {
		c.current.Details = domain.JSONMap{}
	}
	c.current.Details[key] = value
}

// SetRollbackData records data a compensating action will need on the
// step result currently executing.
func (c *Context) SetRollbackData(key string, value interface{}) {
	if c.current == nil {
		return
	}
	if c.current.RollbackData == nil {
		c.current.RollbackData = domain.JSONMap{}
	}
	c.current.RollbackData[key] = value
}
