// Package exportcsv handles the export-csv command.
package exportcsv

import (
	"io"

	"fjacquet/money-backward/cmd/common"
	"fjacquet/money-backward/cmd/root"
	"fjacquet/money-backward/internal/batch"
	csvcommon "fjacquet/money-backward/internal/common"
	"fjacquet/money-backward/internal/container"
	"fjacquet/money-backward/internal/logging"

	"github.com/spf13/cobra"
)

var out string

// Cmd represents the export-csv command
var Cmd = &cobra.Command{
	Use:   "export-csv <input>",
	Short: "Export a normalized JSON file to CSV",
	Long: `Export a batch file as CSV with the columns
date,amount,currency,description,merchant,category,account,source_file,source_row.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, args[0], out, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&out, "out", "o", "./out/transactions.csv", "Output CSV path")
}

// Run reads and validates input, then writes it as CSV to outputFile.
func Run(c *container.Container, input, outputFile string, w io.Writer) error {
	f, err := batch.ReadBatch(input)
	if err != nil {
		return err
	}
	if err := csvcommon.WriteTransactionsToCSV(f.Transactions, outputFile); err != nil {
		return err
	}

	c.GetLogger().Info("Exported CSV",
		logging.Field{Key: logging.FieldInputFile, Value: input},
		logging.Field{Key: logging.FieldOutputFile, Value: outputFile},
		logging.Field{Key: logging.FieldCount, Value: len(f.Transactions)})
	common.PrintOK(w, "OK: wrote %d rows -> %s", len(f.Transactions), outputFile)
	return nil
}
