package cipherbox

import (
	"crypto/subtle"
	"errors"
)

var errBadPadding = errors.New("bad padding")

// Pad appends PKCS#7 padding. A full block is added when b is already aligned.
func Pad(b []byte, blockSize int) []byte {
	n := blockSize - len(b)%blockSize
	out := make([]byte, len(b)+n)
	copy(out, b)
	for i := len(b); i < len(out); i++ {
		out[i] = byte(n)
	}
	return out
}

// Unpad strips PKCS#7 padding, reading the pad length from the last byte.
// An empty input unpads to an empty result.
func Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 {
		return b, nil
	}
	if len(b)%blockSize != 0 {
		return nil, errBadPadding
	}
	n := int(b[len(b)-1])
	if n == 0 || n > blockSize {
		return nil, errBadPadding
	}
	good := 1
	for _, v := range b[len(b)-n:] {
		good &= subtle.ConstantTimeByteEq(v, byte(n))
	}
	if good != 1 {
		return nil, errBadPadding
	}
	return b[:len(b)-n], nil
}
