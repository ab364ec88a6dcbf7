package llm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parsererror"
)

// CommandRunner runs an external command and captures its output.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run implements CommandRunner.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- binary comes from operator config
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// CLIClient drives a locally installed, already authenticated `claude` CLI.
type CLIClient struct {
	bin     string
	model   string
	timeout time.Duration
	runner  CommandRunner
	logger  logging.Logger
}

// NewCLIClient creates a CLI client. A nil runner uses ExecRunner.
func NewCLIClient(bin, model string, timeout time.Duration, runner CommandRunner, logger logging.Logger) *CLIClient {
	if bin == "" {
		bin = "claude"
	}
	if runner == nil {
		runner = ExecRunner{}
	}
	return &CLIClient{
		bin:     bin,
		model:   model,
		timeout: timeout,
		runner:  runner,
		logger:  logging.OrDefault(logger),
	}
}

// Provider implements Client.
func (c *CLIClient) Provider() Provider {
	return ProviderClaudeCLI
}

// GenerateJSON runs `<bin> [--model m] -p <instruction>` and returns stdout
// with any code fence removed.
func (c *CLIClient) GenerateJSON(ctx context.Context, system, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, c.timeout)
	defer cancel()

	full := system + "\n\nReturn ONLY JSON.\n\n" + prompt
	var args []string
	if c.model != "" {
		args = append(args, "--model", c.model)
	}
	args = append(args, "-p", full)

	c.logger.Debug("Running extraction command",
		logging.Field{Key: logging.FieldProvider, Value: string(ProviderClaudeCLI)},
		logging.Field{Key: "bin", Value: c.bin},
		logging.Field{Key: "prompt_chars", Value: len(full)})

	start := time.Now()
	stdout, stderr, err := c.runner.Run(ctx, c.bin, args...)
	if err != nil {
		return "", c.failure(err, stdout, stderr)
	}

	c.logger.Debug("Extraction command finished",
		logging.Field{Key: logging.FieldProvider, Value: string(ProviderClaudeCLI)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return CleanJSON(string(stdout)), nil
}

func (c *CLIClient) failure(err error, stdout, stderr []byte) error {
	if errors.Is(err, exec.ErrNotFound) {
		return &parsererror.ExtractionUnavailableError{
			Provider: string(ProviderClaudeCLI),
			Reason:   fmt.Sprintf("%s not found", c.bin),
			Hint:     "Install and log in to the claude CLI, or set llm.bin.",
			Err:      err,
		}
	}

	detail := strings.TrimSpace(string(stderr))
	if detail == "" {
		detail = strings.TrimSpace(string(stdout))
	}
	reason := fmt.Sprintf("%s failed", c.bin)
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		reason = fmt.Sprintf("%s failed (code=%d)", c.bin, exitErr.ExitCode())
	}
	if detail != "" {
		reason += ": " + detail
	}
	return &parsererror.ExtractionUnavailableError{
		Provider: string(ProviderClaudeCLI),
		Reason:   reason,
		Err:      err,
	}
}
