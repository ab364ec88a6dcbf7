package models

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing transactions
type TransactionBuilder struct {
	tx  Transaction
	err error
}

// NewTransactionBuilder creates a new TransactionBuilder with the default currency
func NewTransactionBuilder() *TransactionBuilder {
	return &TransactionBuilder{
		tx: Transaction{
			Currency: DefaultCurrency,
			Amount:   decimal.Zero,
		},
	}
}

// WithDate sets the already-normalized YYYY-MM-DD date
func (b *TransactionBuilder) WithDate(date string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date == "" {
		b.err = errors.New("date cannot be empty")
		return b
	}
	b.tx.Date = date
	return b
}

// WithAmount sets the signed amount
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Amount = amount
	return b
}

// WithCurrency sets the currency; an empty value keeps the current one
func (b *TransactionBuilder) WithCurrency(currency string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if currency != "" {
		b.tx.Currency = currency
	}
	return b
}

// WithDescription sets the description
func (b *TransactionBuilder) WithDescription(description string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if description == "" {
		b.err = errors.New("description cannot be empty")
		return b
	}
	b.tx.Description = description
	return b
}

// WithMerchant sets the merchant
func (b *TransactionBuilder) WithMerchant(merchant string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Merchant = merchant
	return b
}

// WithCategory sets the category
func (b *TransactionBuilder) WithCategory(category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Category = category
	return b
}

// WithAccount sets the account label
func (b *TransactionBuilder) WithAccount(account string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Account = account
	return b
}

// WithSource sets the traceability block
func (b *TransactionBuilder) WithSource(file string, row int, raw interface{}) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.tx.Source = &Source{File: file, Row: row, Raw: raw}
	return b
}

// Build returns the transaction or the first error recorded by a setter.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return Transaction{}, b.err
	}
	if b.tx.Date == "" {
		return Transaction{}, errors.New("date is required")
	}
	if b.tx.Description == "" {
		return Transaction{}, errors.New("description is required")
	}
	return b.tx, nil
}
