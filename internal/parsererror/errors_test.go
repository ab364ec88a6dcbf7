package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ParseError
		expected string
	}{
		{
			name: "basic parse error",
			err: &ParseError{
				Parser: "pdf",
				Field:  "extraction",
				Value:  "not json",
				Err:    errors.New("invalid character"),
			},
			expected: "pdf: failed to parse extraction='not json': invalid character",
		},
		{
			name: "parse error with empty value",
			err: &ParseError{
				Parser: "pdf",
				Field:  "text",
				Value:  "",
				Err:    errors.New("empty document"),
			},
			expected: "pdf: failed to parse text='': empty document",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestParseError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	parseErr := &ParseError{Parser: "pdf", Field: "json", Err: originalErr}

	assert.Equal(t, originalErr, parseErr.Unwrap())
	assert.True(t, errors.Is(parseErr, originalErr))
}

func TestSchemaViolation(t *testing.T) {
	err := &SchemaViolation{
		Errors: []FieldError{
			{Path: "transactions[2].amount", Message: "expected a finite number"},
			{Path: "transactions[2].currency", Message: "must be 3 letters"},
		},
	}
	assert.Equal(t, "schema violation: transactions[2].amount: expected a finite number; transactions[2].currency: must be 3 letters", err.Error())

	err.Source = "out/a.json"
	assert.Contains(t, err.Error(), "schema violation in 'out/a.json'")
}

func TestMissingColumnsError(t *testing.T) {
	err := &MissingColumnsError{Parser: "smbc-bank", File: "a.csv", Fields: []string{"date", "withdrawal|deposit"}}
	assert.Equal(t, "smbc-bank: missing required columns in 'a.csv': date, withdrawal|deposit", err.Error())
}

func TestUnparseableErrors(t *testing.T) {
	assert.Equal(t, "unparseable date '2024/13/40' at a.csv:3",
		(&UnparseableDateError{File: "a.csv", Row: 3, Raw: "2024/13/40"}).Error())
	assert.Equal(t, "unparseable amount 'abc' at a.csv:4",
		(&UnparseableAmountError{File: "a.csv", Row: 4, Raw: "abc"}).Error())
}

func TestExtractionUnavailableError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &ExtractionUnavailableError{
		Provider: "claude-cli",
		Reason:   "command failed",
		Hint:     "Set MONEY_BACKWARD_LLM_PROVIDER",
		Err:      cause,
	}

	assert.Equal(t, "extraction unavailable (provider=claude-cli): command failed: exit status 1. Set MONEY_BACKWARD_LLM_PROVIDER", err.Error())
	assert.True(t, errors.Is(err, cause))

	wrapped := fmt.Errorf("ingest: %w", err)
	var target *ExtractionUnavailableError
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "claude-cli", target.Provider)
}

func TestNoInputMatchedError(t *testing.T) {
	err := &NoInputMatchedError{Patterns: []string{"out/*.json", "x.json"}}
	assert.Equal(t, "no input files matched: out/*.json x.json", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	err := &InvalidFormatError{FilePath: "a.csv", ExpectedFormat: "CSV with header row", Msg: "file is empty"}
	assert.Equal(t, "invalid format in file 'a.csv': file is empty. Expected: CSV with header row", err.Error())
}
