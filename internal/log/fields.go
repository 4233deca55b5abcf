package log

// Common field names for structured logging
const (
	FieldComponent = "component"
	FieldRequestID = "request_id"
	FieldError     = "error"
	FieldOperation = "operation"

	FieldSessionID = "session_id"
	FieldUserID    = "user_id"
	FieldProjectID = "project_id"
	FieldEntryID   = "entry_id"
	FieldMonth     = "month"
	FieldDuration  = "duration_seconds"
	FieldCost      = "cost"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentTimer   = "timer"
	ComponentEntry   = "entry"
	ComponentSummary = "summary"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentSheets  = "sheets"
)

// Operations defines standard operation names
const (
	OpStart     = "start"
	OpPause     = "pause"
	OpResume    = "resume"
	OpEnd       = "end"
	OpSync      = "sync"
	OpCommit    = "commit"
	OpGenerate  = "generate"
	OpBackfill  = "backfill"
	OpReconcile = "reconcile"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
