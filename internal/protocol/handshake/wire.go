package handshake

import (
	"crypto/subtle"
	"math/big"
	"strings"

	"dhchat/internal/crypto"
	"dhchat/internal/domain"
)

func join(fields ...string) string {
	return strings.Join(fields, domain.Separator)
}

// split returns exactly n non-empty fields, or false.
func split(s string, n int) ([]string, bool) {
	parts := strings.Split(s, domain.Separator)
	if len(parts) != n {
		return nil, false
	}
	for _, p := range parts {
		if p == "" {
			return nil, false
		}
	}
	return parts, true
}

func parseIdentifier(s string) (*big.Int, bool) {
	n, ok := crypto.ParseDecimal(s)
	if !ok || !crypto.InRange(n, crypto.IdentifierMin, crypto.IdentifierMax) {
		return nil, false
	}
	return n, true
}

func parseNonce(s string) (*big.Int, bool) {
	n, ok := crypto.ParseDecimal(s)
	if !ok || !crypto.InRange(n, crypto.NonceMin, crypto.NonceMax) {
		return nil, false
	}
	return n, true
}

// sameDecimal compares a received field with the decimal form of want in
// constant time.
func sameDecimal(got string, want *big.Int) bool {
	return subtle.ConstantTimeCompare([]byte(got), []byte(want.String())) == 1
}
