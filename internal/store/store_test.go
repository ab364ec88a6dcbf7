package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"fjacquet/money-backward/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadAliases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	content := `parsers:
  generic:
    date: ["Booking Date", "Valuta"]
    description: ["Memo"]
  smbc-bank:
    withdrawal: ["支払"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	aliases, err := NewColumnAliasStore(path, logging.NewMockLogger()).LoadAliases()
	require.NoError(t, err)

	assert.Equal(t, []string{"Booking Date", "Valuta"}, aliases.For("generic")["date"])
	assert.Equal(t, []string{"支払"}, aliases.For("smbc-bank")["withdrawal"])
	assert.Nil(t, aliases.For("smbc-olive"))
}

func TestLoadAliases_MissingFileIsEmpty(t *testing.T) {
	s := NewColumnAliasStore(filepath.Join(t.TempDir(), "none.yaml"), logging.NewMockLogger())
	aliases, err := s.LoadAliases()
	require.NoError(t, err)
	assert.Empty(t, aliases)
}

func TestLoadAliases_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "columns.yaml")
	require.NoError(t, os.WriteFile(path, []byte("parsers: [unclosed"), 0600))

	_, err := NewColumnAliasStore(path, nil).LoadAliases()
	assert.Error(t, err)
}

func TestFindConfigFile_SearchesConfigDir(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.MkdirAll("config", 0750))
	require.NoError(t, os.WriteFile(filepath.Join("config", "columns.yaml"), []byte("parsers: {}\n"), 0600))

	found, err := NewColumnAliasStore("", nil).FindConfigFile("columns.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", "columns.yaml"), found)
}

func TestMockAliasStore(t *testing.T) {
	m := &MockAliasStore{}
	aliases, err := m.LoadAliases()
	require.NoError(t, err)
	assert.NotNil(t, aliases)

	m.Err = errors.New("boom")
	_, err = m.LoadAliases()
	assert.EqualError(t, err, "boom")
}
