// Package ingest handles the ingest command: one statement file in, one
// validated batch out.
package ingest

import (
	"context"
	"io"
	"time"

	"fjacquet/money-backward/cmd/common"
	"fjacquet/money-backward/cmd/root"
	"fjacquet/money-backward/internal/container"
	"fjacquet/money-backward/internal/factory"
	"fjacquet/money-backward/internal/llm"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parser"

	"github.com/spf13/cobra"
)

// Options are the ingest flags.
type Options struct {
	Out      string
	Type     string
	Parser   string
	Account  string
	Currency string
}

var opts Options

// Cmd represents the ingest command
var Cmd = &cobra.Command{
	Use:   "ingest <input>",
	Short: "Ingest a statement file and output normalized JSON",
	Long: `Ingest a CSV or PDF statement and write a validated batch of canonical
transactions.

CSV dialects: generic (UTF-8 with header), smbc-olive and smbc-bank (CP932).
PDF input is sent to the configured text-extraction provider.

Example:
  money-backward ingest statement.csv --parser smbc-bank -o out/bank.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(cmd.Context(), c, args[0], opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Out, "out", "o", "./out/transactions.json", "Output JSON path")
	Cmd.Flags().StringVar(&opts.Type, "type", "", "Force input type: csv|pdf (default: from extension)")
	Cmd.Flags().StringVar(&opts.Parser, "parser", string(parser.Generic), "CSV parser: generic|smbc-olive|smbc-bank")
	Cmd.Flags().StringVar(&opts.Account, "account", "", "Account label")
	Cmd.Flags().StringVar(&opts.Currency, "currency", "", "Currency code (default from csv.default_currency, JPY)")
}

// Run ingests input and writes the batch to o.Out.
func Run(ctx context.Context, c *container.Container, input string, o Options, w io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := c.GetLogger()

	pt, err := factory.Resolve(o.Type, o.Parser, input)
	if err != nil {
		return err
	}

	// PDF runs fail fast on a disabled provider before the input is opened.
	if pt == parser.PDF {
		client, err := c.GetLLMClient(ctx)
		if err != nil {
			return err
		}
		if err := llm.CheckAvailable(client); err != nil {
			return err
		}
	}

	p, err := c.GetParser(ctx, pt)
	if err != nil {
		return err
	}

	currency := o.Currency
	if currency == "" {
		currency = c.GetConfig().CSV.DefaultCurrency
	}

	start := time.Now()
	txs, err := common.ProcessFile(ctx, p, input, parser.Options{
		File:     input,
		Account:  o.Account,
		Currency: currency,
	}, log)
	if err != nil {
		return err
	}

	batch, err := common.WriteBatch(o.Out, txs, time.Now())
	if err != nil {
		return err
	}

	log.Info("Ingest completed",
		logging.Field{Key: logging.FieldParser, Value: string(pt)},
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: logging.FieldOutputFile, Value: o.Out},
		logging.Field{Key: logging.FieldCount, Value: len(batch.Transactions)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})

	common.PrintOK(w, "OK: wrote %d transactions -> %s", len(batch.Transactions), o.Out)
	return nil
}
