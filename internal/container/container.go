// Package container provides dependency injection for the money-backward
// commands. It centralizes the creation and wiring of configuration,
// logging, column aliases, the extraction client and the merge engine.
package container

import (
	"context"
	"fmt"
	"io"
	"sync"

	"fjacquet/money-backward/internal/batch"
	"fjacquet/money-backward/internal/config"
	"fjacquet/money-backward/internal/factory"
	"fjacquet/money-backward/internal/llm"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/pdfparser"
	"fjacquet/money-backward/internal/store"

	"github.com/google/uuid"
)

// Container holds all application dependencies and provides methods to
// access them. Fields are private; it is immutable after creation except
// for the lazily built alias table and extraction client.
type Container struct {
	logger     logging.Logger
	config     *config.Config
	runID      string
	aliasStore store.AliasStore
	merger     *batch.Merger
	extractor  pdfparser.PDFExtractor

	mu        sync.Mutex
	aliases   store.Aliases
	llmClient llm.Client
	newClient func(ctx context.Context, cfg config.LLMConfig, logger logging.Logger) (llm.Client, error)
}

// Option customizes a Container, mainly for tests.
type Option func(*Container)

// WithLogger replaces the logger built from configuration.
func WithLogger(logger logging.Logger) Option {
	return func(c *Container) { c.logger = logger }
}

// WithAliasStore replaces the YAML column alias store.
func WithAliasStore(s store.AliasStore) Option {
	return func(c *Container) { c.aliasStore = s }
}

// WithLLMClient injects an extraction client instead of building one from
// configuration.
func WithLLMClient(client llm.Client) Option {
	return func(c *Container) { c.llmClient = client }
}

// WithPDFExtractor replaces the PDF text extractor.
func WithPDFExtractor(e pdfparser.PDFExtractor) Option {
	return func(c *Container) { c.extractor = e }
}

// NewContainer creates and wires all application dependencies.
func NewContainer(cfg *config.Config, opts ...Option) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration cannot be nil")
	}

	c := &Container{
		config:    cfg,
		runID:     uuid.NewString(),
		newClient: llm.NewClient,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = logging.NewLogrusAdapter(cfg.Log.Level, cfg.Log.Format)
	}
	c.logger = c.logger.WithField(logging.FieldRunID, c.runID)

	if c.aliasStore == nil {
		c.aliasStore = store.NewColumnAliasStore(cfg.Parsers.ColumnsFile, c.logger)
	}
	c.merger = batch.NewMerger(c.logger)

	c.logger.Debug("Container initialized",
		logging.Field{Key: logging.FieldProvider, Value: cfg.LLM.Provider})
	return c, nil
}

// GetParser returns a parser for pt wired with column aliases and, for PDF
// input, the extraction client. A provider that cannot be built is returned
// as an error before any input is read.
func (c *Container) GetParser(ctx context.Context, pt parser.ParserType) (parser.Parser, error) {
	aliases, err := c.getAliases()
	if err != nil {
		return nil, err
	}

	deps := factory.Deps{
		Logger:         c.logger,
		Aliases:        aliases,
		Extractor:      c.extractor,
		MaxPromptChars: c.config.LLM.MaxPromptChars,
	}
	if pt == parser.PDF {
		client, err := c.GetLLMClient(ctx)
		if err != nil {
			return nil, err
		}
		deps.LLM = client
	}
	return factory.GetParser(pt, deps)
}

func (c *Container) getAliases() (store.Aliases, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.aliases != nil {
		return c.aliases, nil
	}
	aliases, err := c.aliasStore.LoadAliases()
	if err != nil {
		return nil, err
	}
	c.aliases = aliases
	return aliases, nil
}

// GetLLMClient builds the configured extraction client on first use so that
// CSV runs never need provider credentials.
func (c *Container) GetLLMClient(ctx context.Context) (llm.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.llmClient != nil {
		return c.llmClient, nil
	}
	client, err := c.newClient(ctx, c.config.LLM, c.logger)
	if err != nil {
		return nil, err
	}
	c.llmClient = client
	return client, nil
}

// GetMerger returns the merge engine.
func (c *Container) GetMerger() *batch.Merger {
	return c.merger
}

// GetLogger returns the container's logger instance.
func (c *Container) GetLogger() logging.Logger {
	return c.logger
}

// GetConfig returns the container's configuration instance.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

// RunID identifies this invocation in log output.
func (c *Container) RunID() string {
	return c.runID
}

// Close releases the extraction client when it holds resources.
func (c *Container) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if closer, ok := c.llmClient.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			return err
		}
	}
	c.logger.Debug("Container closed")
	return nil
}
