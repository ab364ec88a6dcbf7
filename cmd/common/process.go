// Package common contains shared functionality for command handlers.
package common

import (
	"context"
	"fmt"
	"io"
	"time"

	"fjacquet/money-backward/internal/fileutils"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/validation"

	"github.com/fatih/color"
)

var (
	okColor    = color.New(color.FgGreen)
	errorColor = color.New(color.FgRed)
)

// ProcessFile parses inputFile with p and returns the transactions.
func ProcessFile(ctx context.Context, p parser.Parser, inputFile string, opts parser.Options, log logging.Logger) ([]models.Transaction, error) {
	if err := validation.IsReadableFile(inputFile); err != nil {
		return nil, err
	}

	file, err := fileutils.OpenFile(inputFile)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close input file",
				logging.Field{Key: logging.FieldFile, Value: inputFile})
		}
	}()

	if opts.File == "" {
		opts.File = inputFile
	}
	return p.Parse(ctx, file, opts)
}

// WriteBatch wraps txs in a batch envelope, validates it and writes it as
// indented JSON. Nothing is written when validation fails.
func WriteBatch(outputFile string, txs []models.Transaction, now time.Time) (models.TransactionsFile, error) {
	checked, err := validation.CheckFile(models.NewTransactionsFile(txs, now))
	if err != nil {
		return models.TransactionsFile{}, err
	}
	if err := fileutils.WriteJSON(outputFile, checked); err != nil {
		return models.TransactionsFile{}, err
	}
	return checked, nil
}

// PrintOK writes a green confirmation line.
func PrintOK(w io.Writer, format string, args ...interface{}) {
	_, _ = okColor.Fprintln(w, fmt.Sprintf(format, args...))
}

// PrintError writes err in red.
func PrintError(w io.Writer, err error) {
	_, _ = errorColor.Fprintln(w, "Error: "+err.Error())
}
