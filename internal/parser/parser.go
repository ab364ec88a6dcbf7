// Package parser defines the contracts shared by every statement parser:
// the decoded input shapes, per-call options, column discovery and the
// BaseParser that parsers embed.
package parser

import (
	"context"
	"io"

	"fjacquet/money-backward/internal/models"
)

// ParserType names a source dialect.
type ParserType string

const (
	Generic   ParserType = "generic"
	SMBCBank  ParserType = "smbc-bank"
	SMBCOlive ParserType = "smbc-olive"
	PDF       ParserType = "pdf"
)

// Parser turns one input stream into canonical transactions.
type Parser interface {
	// Parse reads the whole input and returns the transactions it carries, in
	// source order. Rows that lack a date, amount or description are skipped;
	// any other malformed cell fails the whole call.
	Parse(ctx context.Context, r io.Reader, opts Options) ([]models.Transaction, error)
}

// Options carries per-invocation defaults.
type Options struct {
	// File is recorded as source.file on every emitted transaction.
	File string
	// Account overrides the dialect's default account label.
	Account string
	// Currency is applied to every transaction; empty means JPY.
	Currency string
}

// CurrencyOrDefault returns the requested currency or JPY.
func (o Options) CurrencyOrDefault() string {
	if o.Currency == "" {
		return models.DefaultCurrency
	}
	return o.Currency
}

// AccountOr returns the requested account or fallback.
func (o Options) AccountOr(fallback string) string {
	if o.Account == "" {
		return fallback
	}
	return o.Account
}

// Row is one data line of a header-keyed table.
type Row struct {
	// Line is the 1-based physical line in the source file.
	Line   int
	Fields map[string]string
}

// Get returns the trimmed cell under header, or "".
func (r Row) Get(header string) string {
	if header == "" {
		return ""
	}
	return r.Fields[header]
}

// Raw returns a copy of the row keyed by header, for source.raw.
func (r Row) Raw() map[string]string {
	raw := make(map[string]string, len(r.Fields))
	for k, v := range r.Fields {
		raw[k] = v
	}
	return raw
}

// Table is header-keyed tabular input.
type Table struct {
	Header []string
	Rows   []Row
}

// Record is one line of headerless tabular input.
type Record struct {
	Line   int
	Fields []string
}

// At returns the cell at index i, or "" when the record is shorter.
func (r Record) At(i int) string {
	if i < 0 || i >= len(r.Fields) {
		return ""
	}
	return r.Fields[i]
}
