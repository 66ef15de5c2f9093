package logger

// Standard field names for structured logging.
const (
	FieldPath      = "path"
	FieldSymbol    = "symbol"
	FieldLine      = "line"
	FieldStyle     = "style"
	FieldError     = "error"
	FieldCount     = "count"
	FieldCacheHits = "cache_hits"
	FieldReason    = "reason"
	FieldDuration  = "duration_ms"
)
