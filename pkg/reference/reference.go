// Package reference issues short human-readable booking references.
package reference

import (
	"strings"

	"github.com/google/uuid"
)

// Length is the number of characters in a booking reference.
const Length = 8

// New returns an 8-character uppercase reference drawn from a random UUID.
// Collisions are vanishingly rare but not impossible; the ledger's unique
// reference index is the actual uniqueness guarantee, and callers retry
// generation on the off chance an insert reports a duplicate.
func New() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(hex[:Length])
}
