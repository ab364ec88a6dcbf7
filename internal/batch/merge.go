// Package batch reads canonical batch files and merges them into one.
package batch

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"fjacquet/money-backward/internal/dedupe"
	"fjacquet/money-backward/internal/fileutils"
	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parsererror"
	"fjacquet/money-backward/internal/validation"
)

// ListFiles resolves merge inputs. Literal paths are only cleaned;
// a pattern containing '*' matches basenames inside its directory, where
// '*' stands for any run of characters. The result is de-duplicated and
// sorted.
func ListFiles(patterns []string) ([]string, error) {
	seen := make(map[string]struct{})
	var out []string
	add := func(p string) {
		if _, ok := seen[p]; ok {
			return
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}

	for _, p := range patterns {
		if !strings.Contains(p, "*") {
			add(filepath.Clean(p))
			continue
		}

		dir, base := filepath.Split(p)
		if dir == "" {
			dir = "."
		}
		re := globToRegexp(base)
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if e.IsDir() || !re.MatchString(e.Name()) {
				continue
			}
			add(filepath.Join(dir, e.Name()))
		}
	}

	sort.Strings(out)
	return out, nil
}

func globToRegexp(glob string) *regexp.Regexp {
	parts := strings.Split(glob, "*")
	for i, part := range parts {
		parts[i] = regexp.QuoteMeta(part)
	}
	return regexp.MustCompile("^" + strings.Join(parts, ".*") + "$")
}

// ReadBatch loads and validates one canonical batch file. Schema failures
// name the file.
func ReadBatch(path string) (models.TransactionsFile, error) {
	data, err := fileutils.ReadFile(path)
	if err != nil {
		return models.TransactionsFile{}, err
	}
	f, err := validation.DecodeFile(data)
	if err != nil {
		var violation *parsererror.SchemaViolation
		if errors.As(err, &violation) {
			violation.Source = path
		}
		return models.TransactionsFile{}, err
	}
	return f, nil
}

// MergeResult summarizes one Merge call.
type MergeResult struct {
	// Paths lists the files read, in merge order.
	Paths        []string
	Files        int
	Transactions []models.Transaction
	Removed      int
}

// Merger concatenates batch files and optionally dedupes them.
type Merger struct {
	logger logging.Logger
}

// NewMerger creates a new Merger instance.
func NewMerger(logger logging.Logger) *Merger {
	return &Merger{logger: logging.OrDefault(logger)}
}

// Merge resolves patterns, reads every batch in path order and concatenates
// their transactions. Any unreadable or invalid file aborts the merge.
func (m *Merger) Merge(patterns []string, dedup bool) (MergeResult, error) {
	start := time.Now()
	paths, err := ListFiles(patterns)
	if err != nil {
		return MergeResult{}, err
	}
	if len(paths) == 0 {
		return MergeResult{}, &parsererror.NoInputMatchedError{Patterns: patterns}
	}

	all := []models.Transaction{}
	for _, path := range paths {
		f, err := ReadBatch(path)
		if err != nil {
			return MergeResult{}, err
		}
		m.logger.Debug("Loaded batch",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldCount, Value: len(f.Transactions)})
		all = append(all, f.Transactions...)
	}

	res := MergeResult{Paths: paths, Files: len(paths), Transactions: all}
	if dedup {
		d := dedupe.Dedupe(all)
		res.Transactions = d.Transactions
		res.Removed = d.Removed
	}

	m.logger.Info("Merged batches",
		logging.Field{Key: "files", Value: res.Files},
		logging.Field{Key: logging.FieldCount, Value: len(res.Transactions)},
		logging.Field{Key: logging.FieldRemoved, Value: res.Removed},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return res, nil
}
