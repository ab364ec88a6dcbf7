// Package common provides the tabular decoder feeding the CSV parsers and the
// CSV export encoder.
package common

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/parsererror"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names a supported input character set.
type Encoding string

const (
	EncodingUTF8  Encoding = "utf-8"
	EncodingCP932 Encoding = "cp932"
)

func (e Encoding) decoder() (*encoding.Decoder, error) {
	switch e {
	case EncodingUTF8, "":
		return unicode.UTF8.NewDecoder(), nil
	case EncodingCP932:
		// Shift_JIS in x/text covers the Windows-31J (CP932) extensions.
		return japanese.ShiftJIS.NewDecoder(), nil
	default:
		return nil, fmt.Errorf("unsupported encoding: %s", e)
	}
}

// newCSVReader decodes r into UTF-8, honouring a leading byte-order mark,
// and tolerates ragged rows, stray quotes and padding before quoted cells.
func newCSVReader(r io.Reader, enc Encoding) (*csv.Reader, error) {
	dec, err := enc.decoder()
	if err != nil {
		return nil, err
	}
	reader := csv.NewReader(transform.NewReader(r, unicode.BOMOverride(dec)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	return reader, nil
}

func trimAll(fields []string) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = strings.TrimSpace(f)
	}
	return out
}

// ReadTable decodes a CSV whose first record is a header. Each row is keyed
// by header name; when a header repeats, the first column wins. Cells beyond
// the header are ignored and missing trailing cells are absent.
func ReadTable(r io.Reader, enc Encoding, file string) (parser.Table, error) {
	reader, err := newCSVReader(r, enc)
	if err != nil {
		return parser.Table{}, err
	}

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return parser.Table{}, &parsererror.InvalidFormatError{
			FilePath:       file,
			ExpectedFormat: "CSV with a header row",
			Msg:            "file is empty",
		}
	}
	if err != nil {
		return parser.Table{}, fmt.Errorf("error reading CSV header: %w", err)
	}
	header = trimAll(header)

	table := parser.Table{Header: header}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return parser.Table{}, fmt.Errorf("error reading CSV data: %w", err)
		}
		line, _ := reader.FieldPos(0)

		row := parser.Row{Line: line, Fields: make(map[string]string, len(header))}
		for i, cell := range trimAll(fields) {
			if i >= len(header) {
				break
			}
			if _, dup := row.Fields[header[i]]; dup {
				continue
			}
			row.Fields[header[i]] = cell
		}
		table.Rows = append(table.Rows, row)
	}
	return table, nil
}

// ReadRecords decodes a headerless CSV into positional records.
func ReadRecords(r io.Reader, enc Encoding) ([]parser.Record, error) {
	reader, err := newCSVReader(r, enc)
	if err != nil {
		return nil, err
	}

	var records []parser.Record
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV data: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, parser.Record{Line: line, Fields: trimAll(fields)})
	}
	return records, nil
}
