// Package dedup derives stable content-addressed identities for
// transaction records, enabling idempotent cross-import deduplication.
package dedup

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/statementworks/sbi-statement-parser/internal/models"
)

// ShortIDLen is the length of the short transaction id, a prefix of Key.
const ShortIDLen = 16

// Key hashes the five financial fields of a record into a 32-hex-char
// identity: SHA-256 over "post_date|value_date|debit|credit|balance",
// truncated to 128 bits. Empty fields contribute empty segments; the
// separators are always present. Because balance is a per-row running
// total, two otherwise-identical transactions on the same day almost never
// collide within one statement, while identical records across overlapping
// uploads intentionally do.
func Key(t models.Transaction) string {
	joined := strings.Join([]string{t.PostDate, t.ValueDate, t.Debit, t.Credit, t.Balance}, "|")
	sum := sha256.Sum256([]byte(joined))
	return hex.EncodeToString(sum[:])[:32]
}

// ShortID is the 16-hex-char prefix of a key.
func ShortID(key string) string {
	if len(key) < ShortIDLen {
		return key
	}
	return key[:ShortIDLen]
}
