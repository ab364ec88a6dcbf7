package logging

// Standardized field names for structured logging.
const (
	FieldFile       = "file_path"
	FieldParser     = "parser"
	FieldProvider   = "provider"
	FieldRow        = "row"
	FieldCount      = "count"
	FieldRemoved    = "removed"
	FieldSkipped    = "skipped"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldRunID      = "run_id"
	FieldDuration   = "duration_ms"
)
