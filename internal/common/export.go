package common

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"fjacquet/money-backward/internal/fileutils"
	"fjacquet/money-backward/internal/models"

	"github.com/gocarina/gocsv"
)

// ExportRow is the flat CSV projection of a transaction.
type ExportRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Description string `csv:"description"`
	Merchant    string `csv:"merchant"`
	Category    string `csv:"category"`
	Account     string `csv:"account"`
	SourceFile  string `csv:"source_file"`
	SourceRow   string `csv:"source_row"`
}

// ExportHeader is the fixed first line of every export.
const ExportHeader = "date,amount,currency,description,merchant,category,account,source_file,source_row"

// NewExportRow flattens tx. Missing optional fields become empty cells.
func NewExportRow(tx models.Transaction) ExportRow {
	row := ExportRow{
		Date:        tx.Date,
		Amount:      tx.Amount.String(),
		Currency:    tx.Currency,
		Description: tx.Description,
		Merchant:    tx.Merchant,
		Category:    tx.Category,
		Account:     tx.Account,
		SourceFile:  tx.SourceFile(),
	}
	if r := tx.SourceRow(); r > 0 {
		row.SourceRow = strconv.Itoa(r)
	}
	return row
}

// csvWriter implements gocsv.CSVWriter with minimal quoting: a field is
// quoted only when it holds a comma, a double quote, CR or LF.
type csvWriter struct {
	w   io.Writer
	err error
}

func (c *csvWriter) Write(row []string) error {
	if c.err != nil {
		return c.err
	}
	var b strings.Builder
	for i, field := range row {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(escapeField(field))
	}
	b.WriteByte('\n')
	_, c.err = io.WriteString(c.w, b.String())
	return c.err
}

func (c *csvWriter) Flush() {}

func (c *csvWriter) Error() error {
	return c.err
}

func escapeField(s string) string {
	if !strings.ContainsAny(s, ",\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// WriteTransactionsCSV encodes txs to w with the export header.
func WriteTransactionsCSV(w io.Writer, txs []models.Transaction) error {
	rows := make([]ExportRow, len(txs))
	for i, tx := range txs {
		rows[i] = NewExportRow(tx)
	}
	if err := gocsv.MarshalCSV(rows, &csvWriter{w: w}); err != nil {
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	return nil
}

// TransactionsToCSV renders txs as the export CSV text.
func TransactionsToCSV(txs []models.Transaction) (string, error) {
	var b strings.Builder
	if err := WriteTransactionsCSV(&b, txs); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteTransactionsToCSV writes the export to csvFile, creating parent
// directories and replacing any previous content.
func WriteTransactionsToCSV(txs []models.Transaction, csvFile string) (err error) {
	file, err := fileutils.CreateFile(csvFile)
	if err != nil {
		return fmt.Errorf("error creating CSV file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("error closing CSV file: %w", cerr)
		}
	}()
	return WriteTransactionsCSV(file, txs)
}

var _ gocsv.CSVWriter = (*csvWriter)(nil)
