// Package parsererror defines the typed failures raised while ingesting,
// validating and merging statement data. Every one of them aborts the
// current invocation.
package parsererror

import (
	"fmt"
	"strings"
)

// ParseError represents an error during parsing
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// InvalidFormatError represents an error where the input file does not conform
// to the expected format for a specific parser.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// FieldError is a single failed check, addressed by a path such as
// "transactions[2].amount".
type FieldError struct {
	Path    string
	Message string
}

func (e FieldError) String() string {
	return e.Path + ": " + e.Message
}

// SchemaViolation lists every field that failed canonical validation.
type SchemaViolation struct {
	// Source names the file being validated, when known.
	Source string
	Errors []FieldError
}

func (e *SchemaViolation) Error() string {
	parts := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		parts[i] = fe.String()
	}
	if e.Source != "" {
		return fmt.Sprintf("schema violation in '%s': %s", e.Source, strings.Join(parts, "; "))
	}
	return "schema violation: " + strings.Join(parts, "; ")
}

// MissingColumnsError is raised when a header lacks the columns a parser needs.
type MissingColumnsError struct {
	Parser string
	File   string
	// Fields are semantic names such as "date" or "withdrawal|deposit".
	Fields []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns in '%s': %s",
		e.Parser, e.File, strings.Join(e.Fields, ", "))
}

// UnparseableDateError is raised for a non-empty date cell that is not a
// recognizable calendar date.
type UnparseableDateError struct {
	File string
	Row  int
	Raw  string
}

func (e *UnparseableDateError) Error() string {
	return fmt.Sprintf("unparseable date '%s' at %s:%d", e.Raw, e.File, e.Row)
}

// UnparseableAmountError is raised for a non-empty amount cell that is not numeric.
type UnparseableAmountError struct {
	File string
	Row  int
	Raw  string
}

func (e *UnparseableAmountError) Error() string {
	return fmt.Sprintf("unparseable amount '%s' at %s:%d", e.Raw, e.File, e.Row)
}

// ExtractionUnavailableError is raised when the text-extraction service is
// disabled, misconfigured or failed to answer.
type ExtractionUnavailableError struct {
	Provider string
	Reason   string
	// Hint tells the operator how to enable extraction.
	Hint string
	Err  error
}

func (e *ExtractionUnavailableError) Error() string {
	msg := fmt.Sprintf("extraction unavailable (provider=%s): %s", e.Provider, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Hint != "" {
		msg += ". " + e.Hint
	}
	return msg
}

func (e *ExtractionUnavailableError) Unwrap() error {
	return e.Err
}

// NoInputMatchedError is raised when merge patterns resolve to no files.
type NoInputMatchedError struct {
	Patterns []string
}

func (e *NoInputMatchedError) Error() string {
	return fmt.Sprintf("no input files matched: %s", strings.Join(e.Patterns, " "))
}
