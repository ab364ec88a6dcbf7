// Package smbcbankparser parses SMBC bank account statements: CP932 CSV
// with separate withdrawal and deposit columns.
package smbcbankparser

import (
	"context"
	"io"

	"fjacquet/money-backward/internal/common"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parser"
)

// DefaultAccount labels transactions when no account is requested.
const DefaultAccount = "SMBC Bank"

const (
	fieldDate        = "date"
	fieldWithdrawal  = "withdrawal"
	fieldDeposit     = "deposit"
	fieldDescription = "description"
)

// ColumnSpecs is the SMBC bank decision table. At least one of withdrawal
// and deposit must be present.
var ColumnSpecs = []parser.ColumnSpec{
	{Field: fieldDate, Candidates: []string{"年月日", "日付", "Date"}, Required: true},
	{Field: fieldWithdrawal, Candidates: []string{"お引出し", "出金", "引出", "withdrawal"}, Group: "movement"},
	{Field: fieldDeposit, Candidates: []string{"お預入れ", "入金", "deposit"}, Group: "movement"},
	{Field: fieldDescription, Candidates: []string{"お取り扱い内容", "摘要", "内容", "description"}, Required: true},
}

// Parser handles SMBC bank statement exports.
type Parser struct {
	parser.BaseParser
	specs []parser.ColumnSpec
}

// NewParser creates an SMBC bank parser. aliases extends ColumnSpecs per field.
func NewParser(logger logging.Logger, aliases map[string][]string) *Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(parser.SMBCBank, logger),
		specs:      parser.WithAliases(ColumnSpecs, aliases),
	}
}

// Parse decodes r as CP932 CSV and normalizes every row.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts parser.Options) ([]models.Transaction, error) {
	table, err := common.ReadTable(r, common.EncodingCP932, opts.File)
	if err != nil {
		return nil, err
	}
	return p.ParseTable(ctx, table, opts)
}

// ParseTable normalizes an already decoded table. Balance-only rows with
// neither a withdrawal nor a deposit are skipped.
func (p *Parser) ParseTable(ctx context.Context, table parser.Table, opts parser.Options) ([]models.Transaction, error) {
	cols, err := parser.ResolveColumns(parser.SMBCBank, opts.File, table.Header, p.specs)
	if err != nil {
		return nil, err
	}

	currency := opts.CurrencyOrDefault()
	account := opts.AccountOr(DefaultAccount)
	transactions := make([]models.Transaction, 0, len(table.Rows))
	skipped := 0

	for _, row := range table.Rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		dateRaw := cols.Value(row, fieldDate)
		descRaw := cols.Value(row, fieldDescription)
		if dateRaw == "" || descRaw == "" {
			p.LogSkipped(opts.File, row.Line, "missing date or description")
			skipped++
			continue
		}

		amount, ok, err := p.DualColumnAmount(opts.File, row.Line,
			cols.Value(row, fieldDeposit), cols.Value(row, fieldWithdrawal))
		if err != nil {
			return nil, err
		}
		if !ok {
			p.LogSkipped(opts.File, row.Line, "no withdrawal or deposit")
			skipped++
			continue
		}

		date, err := p.NormalizeDate(opts.File, row.Line, dateRaw)
		if err != nil {
			return nil, err
		}

		tx, err := p.Build(opts.File, row.Line, models.NewTransactionBuilder().
			WithDate(date).
			WithAmount(amount).
			WithCurrency(currency).
			WithDescription(descRaw).
			WithMerchant(descRaw).
			WithAccount(account).
			WithSource(opts.File, row.Line, row.Raw()))
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	p.LogParsed(opts.File, len(transactions), skipped)
	return transactions, nil
}
