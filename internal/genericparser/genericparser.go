// Package genericparser parses CSV exports whose header uses common English
// or Japanese column names.
package genericparser

import (
	"context"
	"io"

	"fjacquet/money-backward/internal/common"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parser"

	"github.com/shopspring/decimal"
)

// Semantic fields resolved against the header.
const (
	fieldDate        = "date"
	fieldAmount      = "amount"
	fieldDeposit     = "deposit"
	fieldWithdrawal  = "withdrawal"
	fieldDescription = "description"
	fieldMerchant    = "merchant"
	fieldCategory    = "category"
)

// ColumnSpecs is the generic decision table. A single signed amount column
// wins over a deposit/withdrawal pair.
var ColumnSpecs = []parser.ColumnSpec{
	{Field: fieldDate, Candidates: []string{"date", "Date", "日付", "利用日", "取引日"}, Required: true},
	{Field: fieldAmount, Candidates: []string{"amount", "Amount", "金額", "利用金額", "支払金額"}, Group: "amount"},
	{Field: fieldDeposit, Candidates: []string{"入金", "deposit", "Deposit", "credit", "Credit"}, Group: "amount"},
	{Field: fieldWithdrawal, Candidates: []string{"出金", "withdrawal", "Withdrawal", "debit", "Debit"}, Group: "amount"},
	{Field: fieldDescription, Candidates: []string{"description", "Description", "摘要", "内容", "利用店名", "加盟店名", "取引内容"}, Required: true},
	{Field: fieldMerchant, Candidates: []string{"merchant", "Merchant", "店名", "加盟店"}},
	{Field: fieldCategory, Candidates: []string{"category", "Category", "カテゴリ", "費目"}},
}

// Parser handles UTF-8 CSV files with a header row.
type Parser struct {
	parser.BaseParser
	specs []parser.ColumnSpec
}

// NewParser creates a generic parser. aliases extends ColumnSpecs per field.
func NewParser(logger logging.Logger, aliases map[string][]string) *Parser {
	return &Parser{
		BaseParser: parser.NewBaseParser(parser.Generic, logger),
		specs:      parser.WithAliases(ColumnSpecs, aliases),
	}
}

// Parse decodes r as UTF-8 CSV and normalizes every row.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts parser.Options) ([]models.Transaction, error) {
	table, err := common.ReadTable(r, common.EncodingUTF8, opts.File)
	if err != nil {
		return nil, err
	}
	return p.ParseTable(ctx, table, opts)
}

// ParseTable normalizes an already decoded table.
func (p *Parser) ParseTable(ctx context.Context, table parser.Table, opts parser.Options) ([]models.Transaction, error) {
	cols, err := parser.ResolveColumns(parser.Generic, opts.File, table.Header, p.specs)
	if err != nil {
		return nil, err
	}

	currency := opts.CurrencyOrDefault()
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

		amount, ok, err := p.rowAmount(cols, row, opts.File)
		if err != nil {
			return nil, err
		}
		if !ok {
			p.LogSkipped(opts.File, row.Line, "missing amount")
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
			WithMerchant(cols.Value(row, fieldMerchant)).
			WithCategory(cols.Value(row, fieldCategory)).
			WithAccount(opts.Account).
			WithSource(opts.File, row.Line, row.Raw()))
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, tx)
	}

	p.LogParsed(opts.File, len(transactions), skipped)
	return transactions, nil
}

// rowAmount reads the signed amount column, or combines the
// deposit/withdrawal pair when no such column exists.
func (p *Parser) rowAmount(cols parser.Columns, row parser.Row, file string) (decimal.Decimal, bool, error) {
	if cols.Has(fieldAmount) {
		raw := cols.Value(row, fieldAmount)
		if raw == "" {
			return decimal.Zero, false, nil
		}
		amount, err := p.NormalizeAmount(file, row.Line, raw)
		return amount, err == nil, err
	}
	return p.DualColumnAmount(file, row.Line, cols.Value(row, fieldDeposit), cols.Value(row, fieldWithdrawal))
}
