package crypto

import (
	"errors"
	"math/big"
)

// ErrInvalidPublicValue is returned for a DH public value outside (1, p-1).
var ErrInvalidPublicValue = errors.New("invalid dh public value")

// Group is a finite-field Diffie–Hellman group.
type Group struct {
	Name string
	P    *big.Int
	G    *big.Int
}

// MODP2048 is the 2048-bit MODP group from RFC 3526 (group 14), generator 2.
var MODP2048 = Group{
	Name: "modp2048",
	P: mustHex("FFFFFFFFFFFFFFFFC90FDAA22168C234C4C6628B80DC1CD1" +
		"29024E088A67CC74020BBEA63B139B22514A08798E3404DD" +
		"EF9519B3CD3A431B302B0A6DF25F14374FE1356D6D51C245" +
		"E485B576625E7EC6F44C42E9A637ED6B0BFF5CB6F406B7ED" +
		"EE386BFB5A899FA5AE9F24117C4B1FE649286651ECE45B3D" +
		"C2007CB8A163BF0598DA48361C55D39A69163FA8FD24CF5F" +
		"83655D23DCA3AD961C62F356208552BB9ED529077096966D" +
		"670C354E4ABC9804F1746C08CA18217C32905E462E36CE3B" +
		"E39E772C180E86039B2783A2EC07A28FB5C55DF06F4C52C9" +
		"DE2BCBF6955817183995497CEA956AE515D2261898FA0510" +
		"15728E5A8AACAA68FFFFFFFFFFFFFFFF"),
	G: big.NewInt(2),
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("crypto: bad group constant")
	}
	return n
}

// Size is the byte length of the modulus.
func (g Group) Size() int {
	return (g.P.BitLen() + 7) / 8
}

// ValidatePublic rejects values that are not in the open interval (1, p-1).
func (g Group) ValidatePublic(y *big.Int) error {
	if y == nil {
		return ErrInvalidPublicValue
	}
	pMinus1 := new(big.Int).Sub(g.P, big.NewInt(1))
	if y.Cmp(big.NewInt(1)) <= 0 || y.Cmp(pMinus1) >= 0 {
		return ErrInvalidPublicValue
	}
	return nil
}
