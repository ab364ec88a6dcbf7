// Package currencyutils provides amount parsing for the cells found in
// Japanese and western statement exports.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// Currency marks, thousands separators and any whitespace including U+3000.
	noise = regexp.MustCompile(`[￥¥$€£円,\s\x{3000}]`)
	// Accounting negatives: "(1,234)" means -1234.
	parenthesized = regexp.MustCompile(`^\((.+)\)$`)
)

// StandardizeAmount strips currency symbols, separators and whitespace and
// rewrites accounting parentheses as a minus sign.
func StandardizeAmount(amountStr string) string {
	s := noise.ReplaceAllString(amountStr, "")
	if m := parenthesized.FindStringSubmatch(s); m != nil {
		s = "-" + m[1]
	}
	return strings.TrimPrefix(s, "+")
}

// NormalizeAmount parses a signed amount cell such as "¥1,234", "-500円" or "(300)".
func NormalizeAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("empty amount '%s'", amountStr)
	}
	// decimal accepts exponents; statement cells never carry them.
	if strings.ContainsAny(standardized, "eE") {
		return decimal.Zero, fmt.Errorf("unsupported amount '%s'", amountStr)
	}
	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	return amount, nil
}

// ColumnError identifies which of two cells failed to parse.
type ColumnError struct {
	Column string
	Raw    string
	Err    error
}

func (e *ColumnError) Error() string {
	return fmt.Sprintf("%s: %v", e.Column, e.Err)
}

func (e *ColumnError) Unwrap() error {
	return e.Err
}

// DualColumnAmount combines separate deposit and withdrawal cells into one
// signed amount. Empty cells count as zero. ok is false when both cells are
// zero, meaning the row carries no movement and should be skipped.
func DualColumnAmount(deposit, withdrawal string) (amount decimal.Decimal, ok bool, err error) {
	d, err := optionalAmount(deposit)
	if err != nil {
		return decimal.Zero, false, &ColumnError{Column: "deposit", Raw: deposit, Err: err}
	}
	w, err := optionalAmount(withdrawal)
	if err != nil {
		return decimal.Zero, false, &ColumnError{Column: "withdrawal", Raw: withdrawal, Err: err}
	}

	if d.IsPositive() {
		return d, true, nil
	}
	if w.IsZero() {
		return decimal.Zero, false, nil
	}
	return w.Neg(), true, nil
}

// AsExpense forces a non-positive sign, for card statements that list
// charges as positive numbers.
func AsExpense(amount decimal.Decimal) decimal.Decimal {
	if amount.IsPositive() {
		return amount.Neg()
	}
	return amount
}

func optionalAmount(s string) (decimal.Decimal, error) {
	if StandardizeAmount(s) == "" {
		return decimal.Zero, nil
	}
	return NormalizeAmount(s)
}
