// Package root contains the root command for the application.
package root

import (
	"fmt"
	"os"

	"fjacquet/money-backward/internal/config"
	"fjacquet/money-backward/internal/container"
	"fjacquet/money-backward/internal/models"

	"github.com/spf13/cobra"
)

var (
	// AppContainer holds the dependencies of the running command. It is set
	// by PersistentPreRunE.
	AppContainer *container.Container

	logLevel  string
	logFormat string

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:     "money-backward",
		Short:   "Convert raw financial data (PDF/CSV) into structured JSON.",
		Version: models.ToolVersion,
		Long: `money-backward normalizes bank and card statement exports into one
canonical JSON transaction format, merges and dedupes batches, and
re-exports them as CSV.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
	}
)

// Init registers the persistent flags and the container cleanup, which cobra
// runs after every command, failed ones included.
func Init() {
	Cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	cobra.OnFinalize(finalize)
}

func finalize() {
	if AppContainer == nil {
		return
	}
	if err := Close(); err != nil {
		fmt.Fprintln(os.Stderr, "Warning:", err)
	}
}

// Close releases the container and forgets it.
func Close() error {
	if AppContainer == nil {
		return nil
	}
	err := AppContainer.Close()
	AppContainer = nil
	return err
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if logFormat != "" {
		cfg.Log.Format = logFormat
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	AppContainer = c
	return nil
}

// GetContainer returns the container, building one from defaults when the
// command runs without the root pre-run hook.
func GetContainer() (*container.Container, error) {
	if AppContainer != nil {
		return AppContainer, nil
	}
	c, err := container.NewContainer(config.Default())
	if err != nil {
		return nil, err
	}
	AppContainer = c
	return c, nil
}
