package log

// Field names shared across components' structured logging. Names used
// by a single package stay literal at the call site.
const (
	FieldError      = "error"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldEntity     = "entity"
	FieldOp         = "op"
	FieldRecordID   = "record_id"
)
