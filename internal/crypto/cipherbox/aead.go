package cipherbox

import (
	"crypto/cipher"
	"encoding/binary"

	"golang.org/x/crypto/chacha20poly1305"
)

// AEAD seals records for one direction of a channel.
//
// The nonce is the 4-byte direction prefix followed by the big-endian
// sequence number, so a sequence number must never be reused under one key.
type AEAD struct {
	aead   cipher.AEAD
	prefix [4]byte
}

// NewAEAD builds a ChaCha20-Poly1305 record box.
func NewAEAD(key []byte, prefix [4]byte) (*AEAD, error) {
	if len(key) != chacha20poly1305.KeySize {
		return nil, ErrKeySize
	}
	a, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	return &AEAD{aead: a, prefix: prefix}, nil
}

// Overhead is the number of bytes Seal adds.
func (a *AEAD) Overhead() int { return a.aead.Overhead() }

// Seal encrypts plaintext as record seq, authenticating ad alongside it.
func (a *AEAD) Seal(seq uint64, plaintext, ad []byte) []byte {
	nonce := a.nonce(seq)
	return a.aead.Seal(nil, nonce[:], plaintext, ad)
}

// Open decrypts record seq. Any failure is ErrDecrypt.
func (a *AEAD) Open(seq uint64, ciphertext, ad []byte) ([]byte, error) {
	nonce := a.nonce(seq)
	pt, err := a.aead.Open(nil, nonce[:], ciphertext, ad)
	if err != nil {
		return nil, ErrDecrypt
	}
	return pt, nil
}

func (a *AEAD) nonce(seq uint64) [chacha20poly1305.NonceSize]byte {
	var n [chacha20poly1305.NonceSize]byte
	copy(n[:4], a.prefix[:])
	binary.BigEndian.PutUint64(n[4:], seq)
	return n
}
