package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldTenantID is the tenant the request operates on
	FieldTenantID = "tenant_id"

	// FieldStaffID is the staff member a provisioning run belongs to
	FieldStaffID = "staff_id"

	// FieldRunID is the payroll setup run ID
	FieldRunID = "run_id"

	// FieldStep is the pipeline step name
	FieldStep = "step"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Standard metric fields attached at emit time.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldSize is the data size in bytes
	FieldSize = "size"
)
