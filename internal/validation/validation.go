// Package validation is the canonical schema gate. Everything written to disk
// or handed between components passes through it.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"time"

	"fjacquet/money-backward/internal/models"
	"fjacquet/money-backward/internal/parsererror"

	"github.com/shopspring/decimal"
)

var (
	datePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	currencyPattern = regexp.MustCompile(`^[A-Za-z]{3}$`)
)

// collector accumulates field failures for one validation run.
type collector struct {
	errs []parsererror.FieldError
}

func (c *collector) add(path, format string, args ...interface{}) {
	c.errs = append(c.errs, parsererror.FieldError{Path: path, Message: fmt.Sprintf(format, args...)})
}

func (c *collector) result(source string) error {
	if len(c.errs) == 0 {
		return nil
	}
	return &parsererror.SchemaViolation{Source: source, Errors: c.errs}
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

// ValidateTransaction checks a generic decoded value (as produced by
// encoding/json) against the canonical transaction shape. An absent currency
// defaults to JPY and unknown keys are dropped.
func ValidateTransaction(v interface{}) (models.Transaction, error) {
	c := &collector{}
	tx := validateTransaction(c, "", v)
	if err := c.result(""); err != nil {
		return models.Transaction{}, err
	}
	return tx, nil
}

// ValidateFile checks a generic decoded value against the batch envelope.
func ValidateFile(v interface{}) (models.TransactionsFile, error) {
	c := &collector{}
	f := validateFile(c, v)
	if err := c.result(""); err != nil {
		return models.TransactionsFile{}, err
	}
	return f, nil
}

// DecodeFile parses a JSON batch and validates it. Numbers are decoded
// without float rounding.
func DecodeFile(data []byte) (models.TransactionsFile, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return models.TransactionsFile{}, &parsererror.SchemaViolation{
			Errors: []parsererror.FieldError{{Path: "$", Message: "invalid JSON: " + err.Error()}},
		}
	}
	if err := ExpectEOF(dec); err != nil {
		return models.TransactionsFile{}, &parsererror.SchemaViolation{
			Errors: []parsererror.FieldError{{Path: "$", Message: err.Error()}},
		}
	}
	return ValidateFile(v)
}

// ExpectEOF fails when dec holds anything after the value just decoded.
func ExpectEOF(dec *json.Decoder) error {
	var extra json.RawMessage
	if err := dec.Decode(&extra); err != io.EOF {
		return errors.New("unexpected data after the JSON value")
	}
	return nil
}

// CheckFile re-validates a typed batch before it is written. Typed values go
// through the same rules as decoded ones.
func CheckFile(f models.TransactionsFile) (models.TransactionsFile, error) {
	if f.Transactions == nil {
		f.Transactions = []models.Transaction{}
	}
	data, err := json.Marshal(f)
	if err != nil {
		return models.TransactionsFile{}, fmt.Errorf("failed to encode batch for validation: %w", err)
	}
	return DecodeFile(data)
}

// IsReadableFile checks that path exists and is a regular file.
func IsReadableFile(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("input file does not exist: %s", path)
	}
	if err != nil {
		return fmt.Errorf("error checking input file %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("input path %s is not a regular file", path)
	}
	return nil
}

func validateFile(c *collector, v interface{}) models.TransactionsFile {
	var f models.TransactionsFile
	obj, ok := v.(map[string]interface{})
	if !ok {
		c.add("$", "expected an object")
		return f
	}

	if version, present := obj["version"]; !present {
		c.add("version", "required")
	} else if n, ok := toDecimal(version); !ok || !n.Equal(decimal.NewFromInt(models.SchemaVersion)) {
		c.add("version", "must be %d", models.SchemaVersion)
	} else {
		f.Version = models.SchemaVersion
	}

	if s, ok := requireString(c, obj, "", "generatedAt"); ok {
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			c.add("generatedAt", "must be an RFC 3339 timestamp")
		} else {
			f.GeneratedAt = s
		}
	}

	if s, ok := requireString(c, obj, "", "tool"); ok {
		f.Tool = s
	}

	raw, present := obj["transactions"]
	if !present {
		c.add("transactions", "required")
		return f
	}
	items, ok := raw.([]interface{})
	if !ok {
		c.add("transactions", "expected an array")
		return f
	}
	f.Transactions = make([]models.Transaction, 0, len(items))
	for i, item := range items {
		f.Transactions = append(f.Transactions, validateTransaction(c, fmt.Sprintf("transactions[%d]", i), item))
	}
	return f
}

func validateTransaction(c *collector, prefix string, v interface{}) models.Transaction {
	var tx models.Transaction
	obj, ok := v.(map[string]interface{})
	if !ok {
		path := prefix
		if path == "" {
			path = "$"
		}
		c.add(path, "expected an object")
		return tx
	}

	if s, ok := requireString(c, obj, prefix, "date"); ok {
		if !datePattern.MatchString(s) {
			c.add(join(prefix, "date"), "must match YYYY-MM-DD")
		} else if _, err := time.Parse(models.DateLayout, s); err != nil {
			c.add(join(prefix, "date"), "not a calendar date")
		} else {
			tx.Date = s
		}
	}

	if raw, present := obj["amount"]; !present || raw == nil {
		c.add(join(prefix, "amount"), "required")
	} else if d, ok := toDecimal(raw); !ok {
		c.add(join(prefix, "amount"), "expected a finite number")
	} else {
		tx.Amount = d
	}

	tx.Currency = models.DefaultCurrency
	if raw, present := obj["currency"]; present && raw != nil {
		s, ok := raw.(string)
		if !ok || !currencyPattern.MatchString(s) {
			c.add(join(prefix, "currency"), "must be a 3-letter code")
		} else {
			tx.Currency = s
		}
	}

	if s, ok := requireString(c, obj, prefix, "description"); ok {
		if s == "" {
			c.add(join(prefix, "description"), "must not be empty")
		} else {
			tx.Description = s
		}
	}

	tx.Merchant = optionalString(c, obj, prefix, "merchant")
	tx.Category = optionalString(c, obj, prefix, "category")
	tx.Account = optionalString(c, obj, prefix, "account")

	if raw, present := obj["source"]; present && raw != nil {
		tx.Source = validateSource(c, join(prefix, "source"), raw)
	}
	return tx
}

func validateSource(c *collector, prefix string, v interface{}) *models.Source {
	obj, ok := v.(map[string]interface{})
	if !ok {
		c.add(prefix, "expected an object")
		return nil
	}
	src := &models.Source{}
	src.File = optionalString(c, obj, prefix, "file")

	if raw, present := obj["row"]; present && raw != nil {
		d, ok := toDecimal(raw)
		if !ok || !d.IsInteger() || !d.IsPositive() || !d.LessThanOrEqual(decimal.NewFromInt(math.MaxInt32)) {
			c.add(join(prefix, "row"), "must be a positive integer")
		} else {
			src.Row = int(d.IntPart())
		}
	}

	if raw, present := obj["raw"]; present && raw != nil {
		switch raw.(type) {
		case map[string]interface{}, string:
			src.Raw = raw
		default:
			c.add(join(prefix, "raw"), "must be an object or a string")
		}
	}
	return src
}

func requireString(c *collector, obj map[string]interface{}, prefix, key string) (string, bool) {
	raw, present := obj[key]
	if !present || raw == nil {
		c.add(join(prefix, key), "required")
		return "", false
	}
	s, ok := raw.(string)
	if !ok {
		c.add(join(prefix, key), "expected a string")
		return "", false
	}
	return s, true
}

// optionalString treats a missing key and JSON null alike.
func optionalString(c *collector, obj map[string]interface{}, prefix, key string) string {
	raw, present := obj[key]
	if !present || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		c.add(join(prefix, key), "expected a string")
		return ""
	}
	return s
}

// toDecimal converts a decoded JSON number. Strings are rejected so that
// "100" and 100 are never confused.
func toDecimal(v interface{}) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(n.String())
		return d, err == nil
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat(n), true
	case float32:
		f := float64(n)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return decimal.Zero, false
		}
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case decimal.Decimal:
		return n, true
	default:
		return decimal.Zero, false
	}
}
