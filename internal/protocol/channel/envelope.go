package channel

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"strings"

	"dhchat/internal/domain"
)

var (
	// ErrSeparatorInPayload rejects text that would make the envelope
	// ambiguous. The channel stays usable.
	ErrSeparatorInPayload = errors.New("message contains the reserved separator")

	errEnvelope = errors.New("malformed envelope")
)

var sep = []byte(domain.Separator)

// Checksum is the lowercase hex SHA-256 of payload.
func Checksum(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}

// BuildEnvelope returns payload SEP checksum(payload).
func BuildEnvelope(payload string) ([]byte, error) {
	if strings.Contains(payload, domain.Separator) {
		return nil, ErrSeparatorInPayload
	}
	out := make([]byte, 0, len(payload)+len(sep)+sha256.Size*2)
	out = append(out, payload...)
	out = append(out, sep...)
	out = append(out, Checksum([]byte(payload))...)
	return out, nil
}

// OpenEnvelope splits on the last separator and verifies the checksum.
func OpenEnvelope(env []byte) (string, error) {
	i := bytes.LastIndex(env, sep)
	if i < 0 {
		return "", errEnvelope
	}
	payload, sum := env[:i], env[i+len(sep):]
	if bytes.Contains(payload, sep) {
		return "", errEnvelope
	}
	if subtle.ConstantTimeCompare(sum, []byte(Checksum(payload))) != 1 {
		return "", errEnvelope
	}
	return string(payload), nil
}
