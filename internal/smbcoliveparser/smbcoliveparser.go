// Package smbcoliveparser parses SMBC Olive card statements: headerless
// CP932 CSV whose first line may describe the card holder.
package smbcoliveparser

import (
	"context"
	"io"
	"regexp"

	"fjacquet/money-backward/internal/common"
	"fjacquet/money-backward/internal/currencyutils"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parser"
)

// DefaultAccount labels transactions when no account is requested.
const DefaultAccount = "SMBC Olive"

// Positional column names, also used as source.raw keys.
var columnNames = []string{"date", "description", "amount", "paymentType", "count", "paymentAmount", "note"}

const (
	colDate          = 0
	colDescription   = 1
	colAmount        = 2
	colPaymentAmount = 5
)

var (
	honorificSuffix = regexp.MustCompile(`様\s*$`)
	oliveProduct    = regexp.MustCompile(`(?i)Ｏｌｉｖｅ|Olive`)
)

// IsMetaRow reports whether rec is the card-holder line that precedes the
// charges: "<name>様,<masked card>,<product>".
func IsMetaRow(rec parser.Record) bool {
	if len(rec.Fields) < 3 {
		return false
	}
	return honorificSuffix.MatchString(rec.At(0)) || oliveProduct.MatchString(rec.At(2))
}

// Parser handles SMBC Olive card statement exports.
type Parser struct {
	parser.BaseParser
}

// NewParser creates an SMBC Olive parser.
func NewParser(logger logging.Logger) *Parser {
	return &Parser{BaseParser: parser.NewBaseParser(parser.SMBCOlive, logger)}
}

// Parse decodes r as headerless CP932 CSV and normalizes every charge.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts parser.Options) ([]models.Transaction, error) {
	records, err := common.ReadRecords(r, common.EncodingCP932)
	if err != nil {
		return nil, err
	}
	return p.ParseRecords(ctx, records, opts)
}

// ParseRecords normalizes already decoded records. Every amount is booked as
// an expense; the payment amount column is preferred over the charge amount.
func (p *Parser) ParseRecords(ctx context.Context, records []parser.Record, opts parser.Options) ([]models.Transaction, error) {
	currency := opts.CurrencyOrDefault()
	account := opts.AccountOr(DefaultAccount)
	transactions := make([]models.Transaction, 0, len(records))
	skipped := 0

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i == 0 && IsMetaRow(rec) {
			continue
		}
		if len(rec.Fields) < 3 {
			p.LogSkipped(opts.File, rec.Line, "fewer than 3 columns")
			skipped++
			continue
		}

		dateRaw := rec.At(colDate)
		descRaw := rec.At(colDescription)
		amountRaw := firstNonEmpty(rec.At(colPaymentAmount), rec.At(colAmount))
		if dateRaw == "" || descRaw == "" || amountRaw == "" {
			p.LogSkipped(opts.File, rec.Line, "missing date, description or amount")
			skipped++
			continue
		}

		date, err := p.NormalizeDate(opts.File, rec.Line, dateRaw)
		if err != nil {
			return nil, err
		}
		amount, err := p.NormalizeAmount(opts.File, rec.Line, amountRaw)
		if err != nil {
			return nil, err
		}

		tx, err := p.Build(opts.File, rec.Line, models.NewTransactionBuilder().
			WithDate(date).
			WithAmount(currencyutils.AsExpense(amount)).
			WithCurrency(currency).
			WithDescription(descRaw).
			WithMerchant(descRaw).
			WithAccount(account).
			WithSource(opts.File, rec.Line, rawRecord(rec)))
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	p.LogParsed(opts.File, len(transactions), skipped)
	return transactions, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// rawRecord keys the record by positional name; cells past the known
// columns are dropped.
func rawRecord(rec parser.Record) map[string]string {
	n := len(rec.Fields)
	if n > len(columnNames) {
		n = len(columnNames)
	}
	raw := make(map[string]string, n)
	for i := 0; i < n; i++ {
		raw[columnNames[i]] = rec.Fields[i]
	}
	return raw
}
