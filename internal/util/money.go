package util

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseAmount parses a currency-formatted string ("$1,234.56", "-$12.00",
// "1234.56") into a float amount. The currency symbol and thousands
// separators are stripped; anything left that does not parse as a number is
// an error.
func ParseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return amount, nil
}

// FormatAmount renders an amount in the canonical "$X.XX" form used
// throughout extraction output
func FormatAmount(amount float64) string {
	if amount < 0 {
		return fmt.Sprintf("-$%.2f", -amount)
	}
	return fmt.Sprintf("$%.2f", amount)
}
