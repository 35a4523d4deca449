package identity

import (
	// Go Internal Packages
	"crypto/sha256"
	"encoding/hex"

	// Local Packages
	utils "payguard/utils"

	// External Packages
	"github.com/shopspring/decimal"
)

// Fingerprint derives the deterministic identity of a logical payment from
// the email text, the destination vendor and the canonical amount. Same three
// values always collide to the same fingerprint, across restarts; no
// randomness, no timestamp.
func Fingerprint(emailText, vendor string, amount decimal.Decimal) string {
	sum := sha256.Sum256([]byte(emailText + vendor + utils.FormatAmount(amount)))
	return hex.EncodeToString(sum[:])
}
