// Package store loads the optional column alias file that extends the
// built-in header candidates of each CSV parser.
package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/money-backward/internal/logging"

	"gopkg.in/yaml.v3"
)

// DefaultAliasFile is looked up when no explicit file is configured.
const DefaultAliasFile = "columns.yaml"

// Aliases maps parser name to semantic field to extra header names.
type Aliases map[string]map[string][]string

// For returns the aliases of one parser; nil when none are configured.
func (a Aliases) For(parserName string) map[string][]string {
	if a == nil {
		return nil
	}
	return a[parserName]
}

// aliasFile is the YAML layout:
//
//	parsers:
//	  generic:
//	    date: ["Booking Date"]
type aliasFile struct {
	Parsers Aliases `yaml:"parsers"`
}

// AliasStore provides column aliases.
type AliasStore interface {
	LoadAliases() (Aliases, error)
}

// ColumnAliasStore reads aliases from a YAML file.
type ColumnAliasStore struct {
	File   string
	logger logging.Logger
}

// NewColumnAliasStore creates a store for file. An empty file means the
// default name in the standard search locations.
func NewColumnAliasStore(file string, logger logging.Logger) *ColumnAliasStore {
	return &ColumnAliasStore{File: file, logger: logging.OrDefault(logger)}
}

// FindConfigFile looks for a configuration file in standard locations
func (s *ColumnAliasStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
		filepath.Join(".money-backward", filename),
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		configPath := filepath.Join(homeDir, ".config", "money-backward", filename)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadAliases reads the alias file. A missing file yields no aliases.
func (s *ColumnAliasStore) LoadAliases() (Aliases, error) {
	filename := s.File
	if filename == "" {
		filename = DefaultAliasFile
	}

	filePath, err := s.FindConfigFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		s.logger.Debug("Column alias file not found",
			logging.Field{Key: logging.FieldFile, Value: filename})
		return Aliases{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error resolving column alias file: %w", err)
	}

	data, err := os.ReadFile(filePath) // #nosec G304 -- user-configured path
	if err != nil {
		return nil, fmt.Errorf("error reading column alias file: %w", err)
	}

	var parsed aliasFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("error parsing column alias file %s: %w", filePath, err)
	}
	if parsed.Parsers == nil {
		parsed.Parsers = Aliases{}
	}

	s.logger.Debug("Loaded column aliases",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(parsed.Parsers)})
	return parsed.Parsers, nil
}
