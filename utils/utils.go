package utils

import (
	// Go Internal Packages
	"strings"

	// External Packages
	"github.com/shopspring/decimal"
)

// FormatAmount renders a money amount in its canonical form: no trailing
// fractional zeros, no exponent. "500.00" and "500" yield the same string, so
// fingerprints, records and events agree regardless of how the caller wrote
// the amount.
func FormatAmount(d decimal.Decimal) string {
	s := d.String()
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	return s
}
