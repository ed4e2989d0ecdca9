package cipherbox

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"

	"dhchat/internal/crypto"
	"dhchat/internal/util/memzero"
)

const (
	// KeySize is the size of the key a Box is built from.
	KeySize = 32
	// BlockSize is the cipher block size used for padding.
	BlockSize = aes.BlockSize

	tagSize = sha256.Size
)

var (
	ErrKeySize = errors.New("cipherbox: key must be 32 bytes")
	ErrDecrypt = errors.New("cipherbox: message authentication failed")
)

// Box is an encrypt-then-MAC AES-CBC box with text output.
type Box struct {
	block  cipher.Block
	macKey []byte
	rand   io.Reader
}

// New derives independent encryption and MAC keys from key.
func New(key []byte) (*Box, error) {
	if len(key) != KeySize {
		return nil, ErrKeySize
	}
	r := hkdf.New(sha256.New, key, nil, []byte("dhchat/cipherbox/v1"))
	encKey := make([]byte, 32)
	macKey := make([]byte, 32)
	if _, err := io.ReadFull(r, encKey); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(r, macKey); err != nil {
		return nil, err
	}
	block, err := aes.NewCipher(encKey)
	memzero.Zero(encKey)
	if err != nil {
		return nil, err
	}
	return &Box{block: block, macKey: macKey, rand: rand.Reader}, nil
}

// Encrypt pads, encrypts and authenticates plaintext, returning base64 of
// IV || ciphertext || tag.
func (b *Box) Encrypt(plaintext []byte) (string, error) {
	padded := Pad(plaintext, BlockSize)
	defer memzero.Zero(padded)

	out := make([]byte, BlockSize+len(padded), BlockSize+len(padded)+tagSize)
	iv := out[:BlockSize]
	if _, err := io.ReadFull(b.rand, iv); err != nil {
		return "", err
	}
	cipher.NewCBCEncrypter(b.block, iv).CryptBlocks(out[BlockSize:], padded)
	out = append(out, b.tag(out)...)
	return crypto.B64(out), nil
}

// Decrypt reverses Encrypt. A text that decodes to nothing yields an empty
// plaintext.
func (b *Box) Decrypt(text string) ([]byte, error) {
	raw, err := crypto.UnB64(text)
	if err != nil {
		return nil, ErrDecrypt
	}
	if len(raw) == 0 {
		return []byte{}, nil
	}
	if len(raw) < BlockSize+BlockSize+tagSize {
		return nil, ErrDecrypt
	}
	body, tag := raw[:len(raw)-tagSize], raw[len(raw)-tagSize:]
	if !hmac.Equal(tag, b.tag(body)) {
		return nil, ErrDecrypt
	}
	ct := body[BlockSize:]
	if len(ct)%BlockSize != 0 {
		return nil, ErrDecrypt
	}
	pt := make([]byte, len(ct))
	cipher.NewCBCDecrypter(b.block, body[:BlockSize]).CryptBlocks(pt, ct)
	out, err := Unpad(pt, BlockSize)
	if err != nil {
		memzero.Zero(pt)
		return nil, ErrDecrypt
	}
	return out, nil
}

// Wipe destroys the MAC key. The Box must not be used afterwards.
func (b *Box) Wipe() {
	memzero.Zero(b.macKey)
}

func (b *Box) tag(data []byte) []byte {
	m := hmac.New(sha256.New, b.macKey)
	m.Write(data)
	return m.Sum(nil)
}
