package statement

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeText collapses whitespace runs and lowercases.
func NormalizeText(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// DedupeKey hashes the identity of a statement line:
// ISO date | normalized narration | signed amount (2dp) | normalized UTR.
func DedupeKey(date time.Time, narration string, signed decimal.Decimal, utr *string) string {
	var ref string
	if utr != nil {
		ref = *utr
	}
	payload := strings.Join([]string{
		date.Format("2006-01-02"),
		NormalizeText(narration),
		Round2(signed).StringFixed(2),
		NormalizeText(ref),
	}, "|")
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}
