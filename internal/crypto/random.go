package crypto

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"
)

// Sampling ranges for the integers generated during a handshake.
var (
	IdentifierMin = new(big.Int).Lsh(big.NewInt(1), 64)
	IdentifierMax = new(big.Int).Lsh(big.NewInt(1), 65)
	NonceMin      = new(big.Int).Lsh(big.NewInt(1), 256)
	NonceMax      = new(big.Int).Lsh(big.NewInt(1), 257)
	ExponentMin   = NonceMin
	ExponentMax   = NonceMax
)

// RandomInt returns a uniform integer in the closed range [lo, hi].
// A nil r uses crypto/rand.
func RandomInt(r io.Reader, lo, hi *big.Int) (*big.Int, error) {
	if lo.Cmp(hi) > 0 {
		return nil, errors.New("random range is empty")
	}
	if r == nil {
		r = rand.Reader
	}
	span := new(big.Int).Sub(hi, lo)
	span.Add(span, big.NewInt(1))
	n, err := rand.Int(r, span)
	if err != nil {
		return nil, err
	}
	return n.Add(n, lo), nil
}

// InRange reports whether lo <= n <= hi.
func InRange(n, lo, hi *big.Int) bool {
	return n != nil && n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
}

// ParseDecimal parses a non-negative decimal integer with no sign or padding.
func ParseDecimal(s string) (*big.Int, bool) {
	if s == "" || (len(s) > 1 && s[0] == '0') {
		return nil, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return nil, false
		}
	}
	return new(big.Int).SetString(s, 10)
}
