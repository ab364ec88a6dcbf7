package dedupe

import (
	"testing"

	"fjacquet/money-backward/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tx(date, amount, description string) models.Transaction {
	return models.Transaction{
		Date:        date,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "JPY",
		Description: description,
	}
}

func TestFingerprint(t *testing.T) {
	base := tx("2024-03-01", "-500", "CAFE")

	t.Run("equal amounts collide regardless of scale", func(t *testing.T) {
		assert.Equal(t, Fingerprint(tx("2024-03-01", "1000", "X")), Fingerprint(tx("2024-03-01", "1000.00", "X")))
	})

	t.Run("ignores merchant category and source", func(t *testing.T) {
		other := base
		other.Merchant = "Cafe Inc"
		other.Category = "food"
		other.Source = &models.Source{File: "a.csv", Row: 3}
		assert.Equal(t, Fingerprint(base), Fingerprint(other))
	})

	t.Run("account and currency are part of the identity", func(t *testing.T) {
		withAccount := base
		withAccount.Account = "SMBC Bank"
		assert.NotEqual(t, Fingerprint(base), Fingerprint(withAccount))

		usd := base
		usd.Currency = "USD"
		assert.NotEqual(t, Fingerprint(base), Fingerprint(usd))
	})

	t.Run("is a sha256 hex digest", func(t *testing.T) {
		assert.Len(t, Fingerprint(base), 64)
	})
}

func TestDedupe_RemovesLaterDuplicates(t *testing.T) {
	first := tx("2024-03-02", "-500", "CAFE")
	first.Merchant = "first"
	second := tx("2024-03-02", "-500.0", "CAFE")
	second.Merchant = "second"
	input := []models.Transaction{first, tx("2024-03-01", "100", "REFUND"), second}

	res := Dedupe(input)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 1, res.Removed)
	assert.Equal(t, "2024-03-01", res.Transactions[0].Date)
	assert.Equal(t, "first", res.Transactions[1].Merchant)
	// input untouched
	assert.Equal(t, "first", input[0].Merchant)
	assert.Equal(t, "2024-03-02", input[0].Date)
}

func TestDedupe_SortsByDateThenAmount(t *testing.T) {
	res := Dedupe([]models.Transaction{
		tx("2024-03-02", "10", "B"),
		tx("2024-03-01", "5", "A"),
		tx("2024-03-02", "-20", "C"),
		tx("2024-03-02", "10", "D"),
	})

	var descriptions []string
	for _, got := range res.Transactions {
		descriptions = append(descriptions, got.Description)
	}
	assert.Equal(t, []string{"A", "C", "B", "D"}, descriptions)
	assert.Zero(t, res.Removed)
}

func TestDedupe_Idempotent(t *testing.T) {
	input := []models.Transaction{
		tx("2024-03-02", "-500", "CAFE"),
		tx("2024-03-02", "-500", "CAFE"),
		tx("2024-03-01", "300000", "SALARY"),
	}
	once := Dedupe(input)
	twice := Dedupe(once.Transactions)

	assert.Equal(t, once.Transactions, twice.Transactions)
	assert.Zero(t, twice.Removed)
}

func TestDedupe_OrderIndependentSurvivors(t *testing.T) {
	a := tx("2024-03-01", "1", "A")
	b := tx("2024-03-02", "2", "B")
	c := tx("2024-03-03", "3", "C")

	forward := Dedupe([]models.Transaction{a, b, c, a})
	backward := Dedupe([]models.Transaction{c, a, b, c})

	assert.Equal(t, forward.Transactions, backward.Transactions)
	assert.Equal(t, 1, forward.Removed)
	assert.Equal(t, 1, backward.Removed)
}

func TestDedupe_Empty(t *testing.T) {
	res := Dedupe(nil)
	assert.NotNil(t, res.Transactions)
	assert.Empty(t, res.Transactions)
	assert.Zero(t, res.Removed)
}
