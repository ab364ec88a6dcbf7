// Package merge handles the merge command.
package merge

import (
	"fmt"
	"io"
	"time"

	"fjacquet/money-backward/cmd/common"
	"fjacquet/money-backward/cmd/root"
	"fjacquet/money-backward/internal/container"

	"github.com/spf13/cobra"
)

// Options are the merge flags.
type Options struct {
	Out    string
	Dedupe bool
}

var opts Options

// Cmd represents the merge command
var Cmd = &cobra.Command{
	Use:   "merge <inputs...>",
	Short: "Merge normalized JSON files into one (optionally dedupe)",
	Long: `Merge several batch files into one. Inputs may be literal paths or
simple globs such as out/*.json; matches are read in sorted path order.

Example:
  money-backward merge 'out/*.json' -o out/merged.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := root.GetContainer()
		if err != nil {
			return err
		}
		return Run(c, args, opts, cmd.OutOrStdout())
	},
}

func init() {
	Cmd.Flags().StringVarP(&opts.Out, "out", "o", "./out/merged.json", "Output JSON path")
	Cmd.Flags().BoolVar(&opts.Dedupe, "dedupe", true, "Dedupe transactions")
}

// Run merges inputs and writes the combined batch to o.Out.
func Run(c *container.Container, inputs []string, o Options, w io.Writer) error {
	res, err := c.GetMerger().Merge(inputs, o.Dedupe)
	if err != nil {
		return err
	}

	batch, err := common.WriteBatch(o.Out, res.Transactions, time.Now())
	if err != nil {
		return err
	}

	deduped := ""
	if o.Dedupe {
		deduped = fmt.Sprintf(" (deduped: -%d)", res.Removed)
	}
	common.PrintOK(w, "OK: merged %d file(s), %d txs%s -> %s", res.Files, len(batch.Transactions), deduped, o.Out)
	return nil
}
