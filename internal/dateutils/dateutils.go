// Package dateutils normalizes the date cells found in statement exports.
package dateutils

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateLayoutISO is the canonical transaction date layout.
const DateLayoutISO = "2006-01-02"

// Year, month and day separated by '/', '.' or '-'. Anything after the day
// (typically a time of day) is ignored.
var ymdPrefix = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})`)

// NormalizeDate converts "2024/3/1", "2024.03.01" or "2024-03-01 12:30" into
// "2024-03-01". Impossible calendar dates are rejected.
func NormalizeDate(raw string) (string, error) {
	s := CleanDateString(raw)
	m := ymdPrefix.FindStringSubmatch(s)
	if m == nil {
		return "", fmt.Errorf("unsupported date format: %q", raw)
	}

	normalized := m[1] + "-" + pad2(m[2]) + "-" + pad2(m[3])
	if _, err := time.Parse(DateLayoutISO, normalized); err != nil {
		return "", fmt.Errorf("invalid calendar date %q: %w", raw, err)
	}
	return normalized, nil
}

// CleanDateString trims whitespace, including U+3000, around a date cell.
func CleanDateString(s string) string {
	return strings.TrimSpace(s)
}

func pad2(s string) string {
	if len(s) == 1 {
		return "0" + s
	}
	return s
}
