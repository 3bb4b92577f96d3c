package pricing

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a backend-supplied numeric string into a decimal. The
// backend stores shop-locale values, so a comma decimal separator is
// accepted. Malformed input parses to zero rather than failing: a data
// quality problem in shipping or tax configuration must not block checkout.
func ParseAmount(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	normalized := strings.ReplaceAll(trimmed, ",", ".")
	if strings.Count(normalized, ".") > 1 {
		// "1.234,56" style grouping: drop every separator but the last.
		last := strings.LastIndex(normalized, ".")
		normalized = strings.ReplaceAll(normalized[:last], ".", "") + normalized[last:]
	}
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return value
}
