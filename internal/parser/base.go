package parser

import (
	"errors"
	"fmt"

	"fjacquet/money-backward/internal/currencyutils"
	"fjacquet/money-backward/internal/dateutils"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parsererror"

	"github.com/shopspring/decimal"
)

// BaseParser provides common functionality for all parser implementations.
// Parsers embed it to share logging and the typed cell normalizers:
//
//	type MyParser struct {
//		parser.BaseParser
//	}
type BaseParser struct {
	name   ParserType
	logger logging.Logger
}

// NewBaseParser creates a new BaseParser. A nil logger falls back to the
// default adapter.
func NewBaseParser(name ParserType, logger logging.Logger) BaseParser {
	return BaseParser{
		name:   name,
		logger: logging.OrDefault(logger),
	}
}

// Name returns the dialect this parser handles.
func (b *BaseParser) Name() ParserType {
	return b.name
}

// GetLogger returns the current logger instance.
func (b *BaseParser) GetLogger() logging.Logger {
	return b.logger
}

// NormalizeDate wraps dateutils.NormalizeDate with the cell's location.
func (b *BaseParser) NormalizeDate(file string, row int, raw string) (string, error) {
	date, err := dateutils.NormalizeDate(raw)
	if err != nil {
		return "", &parsererror.UnparseableDateError{File: file, Row: row, Raw: raw}
	}
	return date, nil
}

// NormalizeAmount wraps currencyutils.NormalizeAmount with the cell's location.
func (b *BaseParser) NormalizeAmount(file string, row int, raw string) (decimal.Decimal, error) {
	amount, err := currencyutils.NormalizeAmount(raw)
	if err != nil {
		return decimal.Zero, &parsererror.UnparseableAmountError{File: file, Row: row, Raw: raw}
	}
	return amount, nil
}

// DualColumnAmount wraps currencyutils.DualColumnAmount with the cell's location.
func (b *BaseParser) DualColumnAmount(file string, row int, deposit, withdrawal string) (decimal.Decimal, bool, error) {
	amount, ok, err := currencyutils.DualColumnAmount(deposit, withdrawal)
	if err != nil {
		raw := withdrawal
		var colErr *currencyutils.ColumnError
		if errors.As(err, &colErr) {
			raw = colErr.Raw
		}
		return decimal.Zero, false, &parsererror.UnparseableAmountError{File: file, Row: row, Raw: raw}
	}
	return amount, ok, nil
}

// Build finishes tb. A builder failure is reported as a ParseError naming
// the file and row.
func (b *BaseParser) Build(file string, row int, tb *models.TransactionBuilder) (models.Transaction, error) {
	tx, err := tb.Build()
	if err != nil {
		return models.Transaction{}, &parsererror.ParseError{
			Parser: string(b.name),
			Field:  "row",
			Value:  fmt.Sprintf("%s:%d", file, row),
			Err:    err,
		}
	}
	return tx, nil
}

// LogParsed records the outcome of one Parse call.
func (b *BaseParser) LogParsed(file string, emitted, skipped int) {
	b.logger.Info("Parsed statement",
		logging.Field{Key: logging.FieldParser, Value: string(b.name)},
		logging.Field{Key: logging.FieldFile, Value: file},
		logging.Field{Key: logging.FieldCount, Value: emitted},
		logging.Field{Key: logging.FieldSkipped, Value: skipped})
}

// LogSkipped records a row dropped for lack of required cells.
func (b *BaseParser) LogSkipped(file string, row int, reason string) {
	b.logger.Debug("Skipping row: "+reason,
		logging.Field{Key: logging.FieldParser, Value: string(b.name)},
		logging.Field{Key: logging.FieldFile, Value: file},
		logging.Field{Key: logging.FieldRow, Value: row})
}
