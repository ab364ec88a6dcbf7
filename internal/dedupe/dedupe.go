// Package dedupe removes repeated transactions across merged batches.
package dedupe

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"fjacquet/money-backward/internal/models"
)

// Result is the outcome of one Dedupe call.
type Result struct {
	Transactions []models.Transaction
	Removed      int
}

// fingerprintPayload fixes the key order of the hashed document.
type fingerprintPayload struct {
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Description string      `json:"description"`
	Account     string      `json:"account"`
	Currency    string      `json:"currency"`
}

// Fingerprint returns the SHA-256 hex digest of the transaction's identity
// fields. Amounts compare by value, so 1000 and 1000.00 collide. Merchant,
// category and source are ignored.
func Fingerprint(tx models.Transaction) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a flat struct of strings cannot fail.
	_ = enc.Encode(fingerprintPayload{
		Date:        tx.Date,
		Amount:      json.Number(tx.Amount.String()),
		Description: tx.Description,
		Account:     tx.Account,
		Currency:    tx.Currency,
	})
	sum := sha256.Sum256(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return hex.EncodeToString(sum[:])
}

// Dedupe keeps the first occurrence of every fingerprint and returns the
// survivors ordered by date, then amount. The input slice is not modified.
func Dedupe(txs []models.Transaction) Result {
	seen := make(map[string]struct{}, len(txs))
	out := make([]models.Transaction, 0, len(txs))
	removed := 0

	for _, tx := range txs {
		key := Fingerprint(tx)
		if _, dup := seen[key]; dup {
			removed++
			continue
		}
		seen[key] = struct{}{}
		out = append(out, tx)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].Amount.LessThan(out[j].Amount)
	})

	return Result{Transactions: out, Removed: removed}
}
