package pdfparser

import (
	"fmt"
	"unicode/utf8"
)

// DefaultMaxChars caps the statement text sent for extraction, in runes.
const DefaultMaxChars = 120000

const systemInstruction = `You are a careful financial data normalization tool.
Return ONLY valid JSON (no markdown), matching the requested schema exactly.
Dates must be ISO YYYY-MM-DD.
Amounts: positive income, negative expense.
Currency: 3-letter code (default JPY).
Do not hallucinate transactions that are not present.`

const promptTemplate = `Extract transactions from the following bank/card statement text.

Return a JSON array of Transaction objects with fields:
- date (YYYY-MM-DD)
- amount (number; expense negative)
- currency (string; use %s)
- description (string)
- merchant (optional string)
- category (optional string)
- account (optional string; use %s)

Also include source.raw if you can (best-effort), but keep it small.

STATEMENT_TEXT_START
%s
STATEMENT_TEXT_END
`

func buildPrompt(text, currency, account string) string {
	return fmt.Sprintf(promptTemplate, currency, account, text)
}

// truncateRunes keeps at most max runes of s.
func truncateRunes(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	n := 0
	for i := range s {
		if n == max {
			return s[:i]
		}
		n++
	}
	return s
}
