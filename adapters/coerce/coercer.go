package coerce

import (
	"math"
	"strconv"
	"strings"
	"time"

	"dataquality/domain/profile"
)

// Coercer parses raw cell text into candidate types. Parsing is
// deterministic and side-effect free; the profiler uses the per-class
// tallies to infer each column's logical type.
type Coercer struct{}

// New creates a coercer
func New() *Coercer {
	return &Coercer{}
}

// currency markers stripped before numeric parsing
var currencySymbols = []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY"}

// ParseNumeric attempts to parse a cell as a number. Tolerates currency
// symbols, percent suffixes, parenthesized negatives, and both US and
// European separator conventions.
func (c *Coercer) ParseNumeric(raw string) (float64, bool) {
	cleanVal := strings.TrimSpace(raw)
	if cleanVal == "" {
		return 0, false
	}

	// Parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range currencySymbols {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)
	cleanVal = strings.ReplaceAll(cleanVal, "%", "")

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	switch {
	case hasComma && (hasPeriod || hasSpace):
		// European/French format: 1.234,56 or 1 234,56
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) <= 2 && allDigits(afterComma) {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	case hasComma:
		// Comma only: exactly three trailing digits reads as a thousands
		// separator (1,234), anything else as a decimal comma (1,5).
		commaIdx := strings.LastIndex(cleanVal, ",")
		afterComma := cleanVal[commaIdx+1:]
		if len(afterComma) == 3 && allDigits(afterComma) && strings.Count(cleanVal, ",") >= 1 {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		}
	default:
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}

	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

// ParseBoolean attempts to parse a cell against the fixed boolean token set.
func (c *Coercer) ParseBoolean(raw string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "1", "yes", "y", "on":
		return true, true
	case "false", "0", "no", "n", "off":
		return false, true
	}
	return false, false
}

// datetimeFormats are tried in order; first match wins.
var datetimeFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"2006/01/02",
	"02-Jan-2006",
}

// Unix-seconds window accepted as timestamps: 2001-09-09 .. 2100-01-01.
// Narrower than the full int32 range so ordinary small integers do not
// tally as datetimes.
const (
	unixMin = 1_000_000_000
	unixMax = 4_102_444_800
)

// ParseDatetime attempts to parse a cell as a timestamp under the
// recognized formats, falling back to Unix seconds within a plausible
// window.
func (c *Coercer) ParseDatetime(raw string) (time.Time, bool) {
	strVal := strings.TrimSpace(raw)
	if strVal == "" {
		return time.Time{}, false
	}

	for _, format := range datetimeFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t, true
		}
	}

	if unixVal, err := strconv.ParseInt(strVal, 10, 64); err == nil {
		if unixVal >= unixMin && unixVal <= unixMax {
			return time.Unix(unixVal, 0).UTC(), true
		}
	}

	return time.Time{}, false
}

// Tally counts, for each non-missing value, which classes it parses under.
// Tallies are independent: "1" counts as numeric and boolean. Values that
// parse under no class count as Other.
func (c *Coercer) Tally(values []string) profile.TypeCounts {
	counts := profile.TypeCounts{NonMissing: len(values)}
	for _, v := range values {
		matched := false
		if _, ok := c.ParseNumeric(v); ok {
			counts.Numeric++
			matched = true
		}
		if _, ok := c.ParseBoolean(v); ok {
			counts.Boolean++
			matched = true
		}
		if _, ok := c.ParseDatetime(v); ok {
			counts.Datetime++
			matched = true
		}
		if !matched {
			counts.Other++
		}
	}
	return counts
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
