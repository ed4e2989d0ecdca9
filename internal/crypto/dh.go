package crypto

import (
	"crypto/sha256"
	"errors"
	"io"
	"math/big"

	"dhchat/internal/util/memzero"
)

var errKeyWiped = errors.New("dh key already wiped")

// DHKey is an ephemeral Diffie–Hellman key pair. The exponent never leaves it.
type DHKey struct {
	group  Group
	x      *big.Int
	Public *big.Int
}

// GenerateKey samples a fresh exponent and computes g^x mod p.
func (g Group) GenerateKey(r io.Reader) (*DHKey, error) {
	x, err := RandomInt(r, ExponentMin, ExponentMax)
	if err != nil {
		return nil, err
	}
	return &DHKey{
		group:  g,
		x:      x,
		Public: new(big.Int).Exp(g.G, x, g.P),
	}, nil
}

// SharedSecret computes peer^x mod p after validating peer.
func (k *DHKey) SharedSecret(peer *big.Int) (*big.Int, error) {
	if k.x == nil {
		return nil, errKeyWiped
	}
	if err := k.group.ValidatePublic(peer); err != nil {
		return nil, err
	}
	return new(big.Int).Exp(peer, k.x, k.group.P), nil
}

// Wipe destroys the private exponent.
func (k *DHKey) Wipe() {
	if k == nil || k.x == nil {
		return
	}
	memzero.Int(k.x)
	k.x = nil
}

// SessionKey hashes the shared secret, encoded big-endian at the modulus
// width, into a 32-byte session key.
func (g Group) SessionKey(secret *big.Int) [32]byte {
	buf := secret.FillBytes(make([]byte, g.Size()))
	sum := sha256.Sum256(buf)
	memzero.Zero(buf)
	return sum
}
