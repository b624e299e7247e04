package tabular

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Lenient scalar parsing. Source files are produced by external systems the
// chapter does not control, so malformed numeric values default to zero
// instead of rejecting the row.

// ParseMoney strips currency symbols and thousands separators before parsing.
// Unparseable input yields zero; negative amounts clamp to zero.
func ParseMoney(v string) decimal.Decimal {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "$", "")
	v = strings.ReplaceAll(v, ",", "")
	v = strings.ReplaceAll(v, " ", "")
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// ParseCount parses a non-negative integer with the same leniency as
// ParseMoney: separators stripped, failures and negatives become zero.
func ParseCount(v string) int {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, ",", "")
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// ParseDate accepts the date spellings seen across roster exports. Unlike the
// numeric parsers it returns an error: dates have no safe default.
func ParseDate(v string) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, fmt.Errorf("missing date value")
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date: %s", v)
}

// FirstLine returns the first non-empty line of a free-text block. Variant-B
// roster exports pack name and postal address into one column with the name
// on the first line.
func FirstLine(v string) string {
	for _, line := range strings.Split(v, "\n") {
		line = strings.TrimSpace(strings.TrimSuffix(line, "\r"))
		if line != "" {
			return line
		}
	}
	return ""
}
