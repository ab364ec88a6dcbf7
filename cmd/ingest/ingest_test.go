package ingest

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/money-backward/internal/batch"
	"fjacquet/money-backward/internal/config"
	"fjacquet/money-backward/internal/container"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parsererror"
	"fjacquet/money-backward/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContainer(t *testing.T) *container.Container {
	t.Helper()
	c, err := container.NewContainer(config.Default(),
		container.WithLogger(logging.NewMockLogger()),
		container.WithAliasStore(&store.MockAliasStore{}))
	require.NoError(t, err)
	return c
}

func TestRun_GenericCSV(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.csv")
	csv := "date,description,amount\n2024/3/1,CAFE,\"-1,200\"\n2024-03-02,SALARY,300000\n,EMPTY,1\n"
	require.NoError(t, os.WriteFile(input, []byte(csv), 0600))
	out := filepath.Join(dir, "out", "tx.json")

	var stdout bytes.Buffer
	err := Run(context.Background(), newContainer(t), input, Options{Out: out, Parser: "generic", Account: "Wallet"}, &stdout)
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "OK: wrote 2 transactions -> "+out)

	f, err := batch.ReadBatch(out)
	require.NoError(t, err)
	require.Len(t, f.Transactions, 2)
	assert.Equal(t, "2024-03-01", f.Transactions[0].Date)
	assert.Equal(t, "-1200", f.Transactions[0].Amount.String())
	assert.Equal(t, "JPY", f.Transactions[0].Currency)
	assert.Equal(t, "Wallet", f.Transactions[0].Account)
	assert.Equal(t, input, f.Transactions[0].Source.File)
	assert.Equal(t, 2, f.Transactions[0].Source.Row)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, bytes.HasSuffix(data, []byte("}\n")))
	assert.Contains(t, string(data), "\n  \"version\": 1,")
}

func TestRun_CurrencyFlag(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "s.csv")
	require.NoError(t, os.WriteFile(input, []byte("date,description,amount\n2024-03-01,X,1\n"), 0600))
	out := filepath.Join(dir, "tx.json")

	require.NoError(t, Run(context.Background(), newContainer(t), input, Options{Out: out, Currency: "USD"}, &bytes.Buffer{}))

	f, err := batch.ReadBatch(out)
	require.NoError(t, err)
	assert.Equal(t, "USD", f.Transactions[0].Currency)
}

func TestRun_PDFWithDisabledProvider(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "statement.pdf")
	require.NoError(t, os.WriteFile(input, []byte("%PDF-1.5"), 0600))
	out := filepath.Join(dir, "tx.json")

	err := Run(context.Background(), newContainer(t), input, Options{Out: out}, &bytes.Buffer{})

	var unavailable *parsererror.ExtractionUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.NoFileExists(t, out)
}

func TestRun_UnknownProviderOnlyAffectsPDF(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.Provider = "openai"
	c, err := container.NewContainer(cfg,
		container.WithLogger(logging.NewMockLogger()),
		container.WithAliasStore(&store.MockAliasStore{}))
	require.NoError(t, err)

	dir := t.TempDir()
	csvInput := filepath.Join(dir, "s.csv")
	require.NoError(t, os.WriteFile(csvInput, []byte("date,description,amount\n2024-03-01,X,1\n"), 0600))
	require.NoError(t, Run(context.Background(), c, csvInput, Options{Out: filepath.Join(dir, "csv.json")}, &bytes.Buffer{}))

	pdfInput := filepath.Join(dir, "s.pdf")
	require.NoError(t, os.WriteFile(pdfInput, []byte("%PDF-1.5"), 0600))
	out := filepath.Join(dir, "pdf.json")
	err = Run(context.Background(), c, pdfInput, Options{Out: out}, &bytes.Buffer{})

	var unavailable *parsererror.ExtractionUnavailableError
	require.True(t, errors.As(err, &unavailable))
	assert.Equal(t, "openai", unavailable.Provider)
	assert.NoFileExists(t, out)
}

func TestRun_MissingColumnsWritesNothing(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "s.csv")
	require.NoError(t, os.WriteFile(input, []byte("foo,bar\n1,2\n"), 0600))
	out := filepath.Join(dir, "tx.json")

	err := Run(context.Background(), newContainer(t), input, Options{Out: out}, &bytes.Buffer{})

	var missing *parsererror.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.NoFileExists(t, out)
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	c := newContainer(t)

	err := Run(context.Background(), c, filepath.Join(dir, "missing.csv"), Options{Out: filepath.Join(dir, "o.json")}, &bytes.Buffer{})
	assert.Error(t, err)

	err = Run(context.Background(), c, "a.csv", Options{Out: filepath.Join(dir, "o.json"), Parser: "revolut"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "unknown parser")
}

func TestCmd_Flags(t *testing.T) {
	assert.Equal(t, "./out/transactions.json", Cmd.Flags().Lookup("out").DefValue)
	assert.Equal(t, "o", Cmd.Flags().Lookup("out").Shorthand)
	assert.Equal(t, "generic", Cmd.Flags().Lookup("parser").DefValue)
	assert.NotNil(t, Cmd.Flags().Lookup("type"))
	assert.NotNil(t, Cmd.Flags().Lookup("account"))
	assert.NotNil(t, Cmd.Flags().Lookup("currency"))
}
