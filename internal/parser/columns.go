package parser

import (
	"strings"

	"fjacquet/money-backward/internal/parsererror"
)

// ColumnSpec is one row of a parser's column decision table.
type ColumnSpec struct {
	// Field is the semantic name, e.g. "date".
	Field string
	// Candidates are header names in priority order.
	Candidates []string
	// Required fails resolution when no candidate is present.
	Required bool
	// Group names an either-or requirement: at least one spec sharing the
	// group must resolve.
	Group string
}

// Columns maps semantic fields to the header chosen for them.
type Columns map[string]string

// Has reports whether field resolved to a header.
func (c Columns) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Value returns the cell for field in row, or "" when unresolved.
func (c Columns) Value(row Row, field string) string {
	header, ok := c[field]
	if !ok {
		return ""
	}
	return row.Get(header)
}

// ResolveColumns picks, for every spec, the first candidate present in
// header. Missing required fields and unsatisfied groups are reported
// together in one MissingColumnsError.
func ResolveColumns(parserName ParserType, file string, header []string, specs []ColumnSpec) (Columns, error) {
	present := make(map[string]struct{}, len(header))
	for _, h := range header {
		present[h] = struct{}{}
	}

	cols := make(Columns, len(specs))
	for _, spec := range specs {
		for _, candidate := range spec.Candidates {
			if _, ok := present[candidate]; ok {
				cols[spec.Field] = candidate
				break
			}
		}
	}

	var missing []string
	groups := make(map[string][]string)
	var groupOrder []string
	for _, spec := range specs {
		if spec.Group != "" {
			if _, seen := groups[spec.Group]; !seen {
				groupOrder = append(groupOrder, spec.Group)
			}
			groups[spec.Group] = append(groups[spec.Group], spec.Field)
			continue
		}
		if spec.Required && !cols.Has(spec.Field) {
			missing = append(missing, spec.Field)
		}
	}
	for _, group := range groupOrder {
		satisfied := false
		for _, field := range groups[group] {
			if cols.Has(field) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, strings.Join(groups[group], "|"))
		}
	}

	if len(missing) > 0 {
		return nil, &parsererror.MissingColumnsError{Parser: string(parserName), File: file, Fields: missing}
	}
	return cols, nil
}

// WithAliases returns a copy of specs with extra header names appended to
// the candidates of the matching fields. Built-in candidates keep priority.
func WithAliases(specs []ColumnSpec, aliases map[string][]string) []ColumnSpec {
	out := make([]ColumnSpec, len(specs))
	for i, spec := range specs {
		spec.Candidates = append([]string(nil), spec.Candidates...)
		spec.Candidates = append(spec.Candidates, aliases[spec.Field]...)
		out[i] = spec
	}
	return out
}
