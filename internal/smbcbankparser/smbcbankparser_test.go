package smbcbankparser

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
	"golang.org/x/text/encoding/japanese"
)

func cp932(t *testing.T, s string) *strings.Reader {
	t.Helper()
	out, err := japanese.ShiftJIS.NewEncoder().String(s)
	require.NoError(t, err)
	return strings.NewReader(out)
}

const statement = "年月日,お引出し,お預入れ,お取り扱い内容,残高\n" +
	"2024/3/1,\"3,000\",,ＡＴＭ,97000\n" +
	"2024/3/5,,\"250,000\",給与,347000\n" +
	"2024/3/6,,,残高照会,347000\n"

func TestParse_Statement(t *testing.T) {
	mock := logging.NewMockLogger()
	txs, err := NewParser(mock, nil).Parse(context.Background(), cp932(t, statement), parser.Options{File: "bank.csv"})
	require.NoError(t, err)
	require.Len(t, txs, 2)

	assert.Equal(t, "2024-03-01", txs[0].Date)
	assert.Equal(t, "-3000", txs[0].Amount.String())
	assert.Equal(t, "ＡＴＭ", txs[0].Description)
	assert.Equal(t, "ＡＴＭ", txs[0].Merchant)
	assert.Equal(t, "SMBC Bank", txs[0].Account)
	assert.Equal(t, "JPY", txs[0].Currency)
	assert.Equal(t, 2, txs[0].Source.Row)
	assert.Equal(t, "97000", txs[0].Source.Raw.(map[string]string)["残高"])

	assert.Equal(t, "250000", txs[1].Amount.String())
	assert.Equal(t, 3, txs[1].Source.Row)

	assert.True(t, mock.HasMessage("INFO", "Parsed statement"))
}

func TestParse_AccountOverride(t *testing.T) {
	txs, err := NewParser(nil, nil).Parse(context.Background(), cp932(t, statement), parser.Options{Account: "Household"})
	require.NoError(t, err)
	require.NotEmpty(t, txs)
	for _, tx := range txs {
		assert.Equal(t, "Household", tx.Account)
	}
}

func TestParse_DepositOnlyHeader(t *testing.T) {
	input := "日付,入金,摘要\n2024-03-01,500,利息\n"
	txs, err := NewParser(nil, nil).Parse(context.Background(), cp932(t, input), parser.Options{})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "500", txs[0].Amount.String())
}

func TestParse_MissingColumns(t *testing.T) {
	input := "年月日,お取り扱い内容,残高\n2024/3/1,ＡＴＭ,100\n"
	_, err := NewParser(nil, nil).Parse(context.Background(), cp932(t, input), parser.Options{File: "bank.csv"})

	var missing *parsererror.MissingColumnsError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "smbc-bank", missing.Parser)
	assert.Equal(t, []string{"withdrawal|deposit"}, missing.Fields)
}

func TestParse_BadWithdrawal(t *testing.T) {
	input := "年月日,お引出し,お預入れ,お取り扱い内容\n2024/3/1,三千,,ＡＴＭ\n"
	_, err := NewParser(nil, nil).Parse(context.Background(), cp932(t, input), parser.Options{File: "bank.csv"})

	var amountErr *parsererror.UnparseableAmountError
	require.True(t, errors.As(err, &amountErr))
	assert.Equal(t, "三千", amountErr.Raw)
	assert.Equal(t, 2, amountErr.Row)
}
