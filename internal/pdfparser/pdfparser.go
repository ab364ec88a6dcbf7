// Package pdfparser turns free-text PDF statements into canonical
// transactions by way of the text-extraction service.
package pdfparser

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"fjacquet/money-backward/internal/llm"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/parsererror"
	"fjacquet/money-backward/internal/validation"
)

// Parser extracts PDF text and asks the extraction client for a JSON array
// of transactions.
type Parser struct {
	parser.BaseParser
	extractor PDFExtractor
	client    llm.Client
	maxChars  int
}

// NewParser creates a PDF parser. A nil extractor uses RealPDFExtractor and a
// non-positive maxChars uses DefaultMaxChars.
func NewParser(logger logging.Logger, extractor PDFExtractor, client llm.Client, maxChars int) *Parser {
	if extractor == nil {
		extractor = NewRealPDFExtractor()
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &Parser{
		BaseParser: parser.NewBaseParser(parser.PDF, logger),
		extractor:  extractor,
		client:     client,
		maxChars:   maxChars,
	}
}

// Parse implements parser.Parser. Availability is checked before the PDF is
// read, so a disabled provider never touches the input.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts parser.Options) ([]models.Transaction, error) {
	if err := llm.CheckAvailable(p.client); err != nil {
		return nil, err
	}

	text, err := p.extract(r)
	if err != nil {
		return nil, err
	}
	return p.ParseText(ctx, text, opts)
}

// ParseText sends already extracted statement text for extraction and
// validates the result.
func (p *Parser) ParseText(ctx context.Context, text string, opts parser.Options) ([]models.Transaction, error) {
	if err := llm.CheckAvailable(p.client); err != nil {
		return nil, err
	}

	currency := opts.CurrencyOrDefault()
	prompt := buildPrompt(truncateRunes(text, p.maxChars), currency, opts.Account)

	p.GetLogger().Debug("Requesting transaction extraction",
		logging.Field{Key: logging.FieldProvider, Value: string(p.client.Provider())},
		logging.Field{Key: logging.FieldFile, Value: opts.File})

	out, err := p.client.GenerateJSON(ctx, systemInstruction, prompt)
	if err != nil {
		return nil, err
	}

	items, err := decodeArray(out, opts.File)
	if err != nil {
		return nil, err
	}

	txs := make([]models.Transaction, 0, len(items))
	for i, item := range items {
		tx, err := validation.ValidateTransaction(withDefaults(item, currency, opts))
		if err != nil {
			return nil, prefixViolation(err, i, opts.File)
		}
		txs = append(txs, tx)
	}

	p.LogParsed(opts.File, len(txs), 0)
	return txs, nil
}

func (p *Parser) extract(r io.Reader) (string, error) {
	tmp, err := os.CreateTemp("", "money-backward-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err := os.Remove(tmp.Name()); err != nil {
			p.GetLogger().WithError(err).Warn("Failed to remove temp file",
				logging.Field{Key: logging.FieldFile, Value: tmp.Name()})
		}
	}()

	if _, err := io.Copy(tmp, r); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to buffer PDF input: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to buffer PDF input: %w", err)
	}
	return p.extractor.ExtractText(tmp.Name())
}

func decodeArray(out, file string) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(out)))
	dec.UseNumber()
	var v interface{}
	err := dec.Decode(&v)
	if err == nil {
		err = validation.ExpectEOF(dec)
	}
	if err != nil {
		return nil, &parsererror.ParseError{
			Parser: string(parser.PDF),
			Field:  "extraction result",
			Value:  preview(out),
			Err:    err,
		}
	}
	items, ok := v.([]interface{})
	if !ok {
		return nil, &parsererror.SchemaViolation{
			Source: file,
			Errors: []parsererror.FieldError{{Path: "$", Message: "extraction result must be a JSON array"}},
		}
	}
	return items, nil
}

// withDefaults fills currency and account when absent or null and records
// the input file. Non-object items are returned untouched for validation to
// reject.
func withDefaults(item interface{}, currency string, opts parser.Options) interface{} {
	obj, ok := item.(map[string]interface{})
	if !ok {
		return item
	}
	merged := make(map[string]interface{}, len(obj)+1)
	for k, v := range obj {
		merged[k] = v
	}
	if merged["currency"] == nil {
		merged["currency"] = currency
	}
	if merged["account"] == nil && opts.Account != "" {
		merged["account"] = opts.Account
	}

	source := map[string]interface{}{}
	if src, ok := obj["source"].(map[string]interface{}); ok {
		for k, v := range src {
			source[k] = v
		}
	}
	if opts.File != "" {
		source["file"] = opts.File
	}
	if len(source) > 0 {
		merged["source"] = source
	} else {
		delete(merged, "source")
	}
	return merged
}

func prefixViolation(err error, index int, file string) error {
	var violation *parsererror.SchemaViolation
	if !errors.As(err, &violation) {
		return err
	}
	errs := make([]parsererror.FieldError, len(violation.Errors))
	for i, fe := range violation.Errors {
		path := fmt.Sprintf("[%d]", index)
		if fe.Path != "$" {
			path += "." + fe.Path
		}
		errs[i] = parsererror.FieldError{Path: path, Message: fe.Message}
	}
	return &parsererror.SchemaViolation{Source: file, Errors: errs}
}

func preview(s string) string {
	const limit = 80
	return truncateRunes(s, limit)
}
