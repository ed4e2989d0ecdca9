package crypto

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/scrypt"
)

const (
	// KeyBytes is the size of a passphrase-derived key.
	KeyBytes = 32

	// MinPassphraseLen is the minimum passphrase length in characters.
	MinPassphraseLen = 8
)

// KDF names a passphrase hashing function. Both peers must use the same one.
type KDF string

const (
	KDFArgon2id KDF = "argon2id"
	KDFScrypt   KDF = "scrypt"
)

var (
	ErrPassphraseTooShort = fmt.Errorf("passphrase must be at least %d characters", MinPassphraseLen)
	ErrUnknownKDF         = errors.New("unknown kdf")
)

// pskSalt is fixed so that both peers reach the same key without a prior exchange.
var pskSalt = func() []byte {
	sum := sha256.Sum256([]byte("dhchat/psk/v1"))
	return sum[:16]
}()

// ParseKDF validates a KDF name. An empty name selects Argon2id.
func ParseKDF(name string) (KDF, error) {
	switch KDF(name) {
	case "", KDFArgon2id:
		return KDFArgon2id, nil
	case KDFScrypt:
		return KDFScrypt, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownKDF, name)
	}
}

// ValidatePassphrase reports whether passphrase is long enough to be used.
func ValidatePassphrase(passphrase string) error {
	if utf8.RuneCountInString(passphrase) < MinPassphraseLen {
		return ErrPassphraseTooShort
	}
	return nil
}

// DerivePSK stretches passphrase into the key that protects the handshake
// confirmation messages.
func DerivePSK(passphrase string, kdf KDF) ([]byte, error) {
	if err := ValidatePassphrase(passphrase); err != nil {
		return nil, err
	}
	switch kdf {
	case "", KDFArgon2id:
		return argon2.IDKey([]byte(passphrase), pskSalt, 1, 64*1024, 4, KeyBytes), nil
	case KDFScrypt:
		return scrypt.Key([]byte(passphrase), pskSalt, 1<<15, 8, 1, KeyBytes)
	default:
		return nil, fmt.Errorf("%w %q", ErrUnknownKDF, kdf)
	}
}
