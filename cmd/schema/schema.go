// Package schema handles the schema command.
package schema

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// Description is the human-readable canonical shape.
const Description = `Normalized output is a JSON object:
{ version: 1, generatedAt: ISOString, tool: string, transactions: Transaction[] }
Transaction fields:
- date: YYYY-MM-DD
- amount: number (income +, expense -)
- currency: 3-letter code (default JPY)
- description: string
- merchant?: string
- category?: string
- account?: string
- source?: { file?: string, row?: number, raw?: object|string }`

// Cmd represents the schema command
var Cmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the normalized output shape",
	Args:  cobra.NoArgs,
	// schema needs no configuration
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(cmd.OutOrStdout())
	},
}

// Run prints Description.
func Run(w io.Writer) error {
	_, err := fmt.Fprintln(w, Description)
	return err
}
