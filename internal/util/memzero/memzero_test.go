package memzero_test

import (
	"math/big"
	"testing"

	"dhchat/internal/util/memzero"
)

func TestZero(t *testing.T) {
	b := []byte{1, 2, 3, 4}
	memzero.Zero(b)
	for i, v := range b {
		if v != 0 {
			t.Fatalf("byte %d not zeroed: %d", i, v)
		}
	}
	memzero.Zero(nil)
}

func TestInt(t *testing.T) {
	n := new(big.Int).Lsh(big.NewInt(1), 300)
	n.Add(n, big.NewInt(12345))
	words := n.Bits()
	memzero.Int(n)
	if n.Sign() != 0 {
		t.Fatalf("want zero, got %s", n)
	}
	for i, w := range words {
		if w != 0 {
			t.Fatalf("limb %d not cleared", i)
		}
	}
	memzero.Int(nil)
}
