// Package models defines the canonical transaction record shared by every
// parser, the merge engine and the exporters.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts travel as bare JSON numbers, never quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// Source records where a transaction came from.
type Source struct {
	File string `json:"file,omitempty" yaml:"file,omitempty"`
	// Row is the 1-based physical line in File.
	Row int `json:"row,omitempty" yaml:"row,omitempty"`
	// Raw is the row as read: a map keyed by header or positional name, or a string.
	Raw interface{} `json:"raw,omitempty" yaml:"raw,omitempty"`
}

// Transaction is one normalized ledger entry. Positive amounts are income,
// negative amounts are expenses.
type Transaction struct {
	Date        string          `json:"date" yaml:"date"`
	Amount      decimal.Decimal `json:"amount" yaml:"amount"`
	Currency    string          `json:"currency" yaml:"currency"`
	Description string          `json:"description" yaml:"description"`
	Merchant    string          `json:"merchant,omitempty" yaml:"merchant,omitempty"`
	Category    string          `json:"category,omitempty" yaml:"category,omitempty"`
	Account     string          `json:"account,omitempty" yaml:"account,omitempty"`
	Source      *Source         `json:"source,omitempty" yaml:"source,omitempty"`
}

// SourceFile returns the originating file or "" when unknown.
func (t Transaction) SourceFile() string {
	if t.Source == nil {
		return ""
	}
	return t.Source.File
}

// SourceRow returns the originating line or 0 when unknown.
func (t Transaction) SourceRow() int {
	if t.Source == nil {
		return 0
	}
	return t.Source.Row
}

// TransactionsFile is the on-disk batch envelope.
type TransactionsFile struct {
	Version      int           `json:"version" yaml:"version"`
	GeneratedAt  string        `json:"generatedAt" yaml:"generatedAt"`
	Tool         string        `json:"tool" yaml:"tool"`
	Transactions []Transaction `json:"transactions" yaml:"transactions"`
}

// NewTransactionsFile wraps txs in a batch envelope stamped with now.
func NewTransactionsFile(txs []Transaction, now time.Time) TransactionsFile {
	if txs == nil {
		txs = []Transaction{}
	}
	return TransactionsFile{
		Version:      SchemaVersion,
		GeneratedAt:  now.UTC().Format(time.RFC3339),
		Tool:         ToolID,
		Transactions: txs,
	}
}
