package genericparser

import (
	"context"
	"errors"
	"strings"
	"testing"

	"fjacquet/money-backward/internal/logging"
	"fjacquet/money-backward/internal/parser"
	"fjacquet/money-backward/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parse(t *testing.T, csv string, opts parser.Options) ([]string, error) {
	t.Helper()
	txs, err := NewParser(logging.NewMockLogger(), nil).Parse(context.Background(), strings.NewReader(csv), opts)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Date + " " + tx.Amount.String() + " " + tx.Currency + " " + tx.Description
	}
	return out, nil
}

func TestParse_Basic(t *testing.T) {
	input := "date,amount,description\n2024/3/1,-500,Lunch\n"

	txs, err := NewParser(logging.NewMockLogger(), nil).Parse(context.Background(), strings.NewReader(input), parser.Options{File: "a.csv"})
	require.NoError(t, err)
	require.Len(t, txs, 1)

	tx := txs[0]
	assert.Equal(t, "2024-03-01", tx.Date)
	assert.Equal(t, "-500", tx.Amount.String())
	assert.Equal(t, "JPY", tx.Currency)
	assert.Equal(t, "Lunch", tx.Description)
	assert.Empty(t, tx.Merchant)
	assert.Empty(t, tx.Account)
	require.NotNil(t, tx.Source)
	assert.Equal(t, "a.csv", tx.Source.File)
	assert.Equal(t, 2, tx.Source.Row)
	assert.Equal(t, map[string]string{"date": "2024/3/1", "amount": "-500", "description": "Lunch"}, tx.Source.Raw)
}

func TestParse_PaddedQuotedCells(t *testing.T) {
	input := "date,amount,description\n2024/3/1, -500, \"Lunch, late\"\n"

	txs, err := NewParser(nil, nil).Parse(context.Background(), strings.NewReader(input), parser.Options{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "-500", txs[0].Amount.String())
	assert.Equal(t, "Lunch, late", txs[0].Description)
}

func TestParse_JapaneseHeadersAndOptionals(t *testing.T) {
	input := "利用日,利用店名,利用金額,加盟店,費目\n2024-03-02,コンビニ,\"¥1,200\",ローソン,食費\n2024-03-03,書店,800,,\n"

	txs, err := NewParser(nil, nil).Parse(context.Background(), strings.NewReader(input),
		parser.Options{File: "card.csv", Account: "Card", Currency: "USD"})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "1200", txs[0].Amount.String())
	assert.Equal(t, "ローソン", txs[0].Merchant)
	assert.Equal(t, "食費", txs[0].Category)
	assert.Equal(t, "Card", txs[0].Account)
	assert.Equal(t, "USD", txs[0].Currency)
	assert.Empty(t, txs[1].Merchant)
	assert.Empty(t, txs[1].Category)
	assert.Equal(t, 3, txs[1].Source.Row)
}

func TestParse_SkipsIncompleteRows(t *testing.T) {
	input := "date,amount,description\n" +
		"2024-03-01,100,ok\n" +
		",200,no date\n" +
		"2024-03-02,,no amount\n" +
		"2024-03-03,300,\n" +
		"2024-03-04,400,also ok\n"

	got, err := parse(t, input, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01 100 JPY ok", "2024-03-04 400 JPY also ok"}, got)
}

func TestParse_DepositWithdrawalPair(t *testing.T) {
	input := "日付,摘要,入金,出金\n" +
		"2024-03-01,給与,\"250,000\",\n" +
		"2024-03-02,家賃,,80000\n" +
		"2024-03-03,残高調整,0,0\n"

	got, err := parse(t, input, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01 250000 JPY 給与", "2024-03-02 -80000 JPY 家賃"}, got)
}

func TestParse_AmountColumnWinsOverPair(t *testing.T) {
	input := "date,description,amount,deposit\n2024-03-01,x,-5,100\n"
	got, err := parse(t, input, parser.Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-03-01 -5 JPY x"}, got)
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := parse(t, "when,what\n2024-03-01,x\n", parser.Options{File: "bad.csv"})

	var missing *parsererror.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "generic", missing.Parser)
	assert.Equal(t, []string{"date", "description", "amount|deposit|withdrawal"}, missing.Fields)
}

func TestParse_UnparseableCells(t *testing.T) {
	_, err := parse(t, "date,amount,description\n2024-03-01,100,ok\n03/01/2024,100,bad\n", parser.Options{File: "a.csv"})
	var dateErr *parsererror.UnparseableDateError
	require.True(t, errors.As(err, &dateErr))
	assert.Equal(t, 3, dateErr.Row)
	assert.Equal(t, "03/01/2024", dateErr.Raw)

	_, err = parse(t, "date,amount,description\n2024-03-01,abc,bad\n", parser.Options{File: "a.csv"})
	var amountErr *parsererror.UnparseableAmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "abc", amountErr.Raw)
}

func TestParse_Aliases(t *testing.T) {
	input := "Booking Date,Text,Betrag\n2024-03-01,Coffee,-4.5\n"
	p := NewParser(logging.NewMockLogger(), map[string][]string{
		"date":        {"Booking Date"},
		"description": {"Text"},
		"amount":      {"Betrag"},
	})

	txs, err := p.Parse(context.Background(), strings.NewReader(input), parser.Options{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "-4.5", txs[0].Amount.String())
}

func TestParse_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewParser(logging.NewMockLogger(), nil).Parse(ctx, strings.NewReader("date,amount,description\n2024-03-01,1,x\n"), parser.Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
