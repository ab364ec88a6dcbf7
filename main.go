package main

import (
	"os"

	"fjacquet/money-backward/cmd/common"
	"fjacquet/money-backward/cmd/exportcsv"
	"fjacquet/money-backward/cmd/ingest"
	"fjacquet/money-backward/cmd/merge"
	"fjacquet/money-backward/cmd/root"
	"fjacquet/money-backward/cmd/schema"
	"fjacquet/money-backward/internal/config"
)

func init() {
	// .env must be loaded before viper reads the environment
	_, _ = config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(ingest.Cmd)
	root.Cmd.AddCommand(merge.Cmd)
	root.Cmd.AddCommand(exportcsv.Cmd)
	root.Cmd.AddCommand(schema.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		common.PrintError(os.Stderr, err)
		os.Exit(1)
	}
}
