package crypto

import (
	"encoding/base64"
	"errors"
	"strings"
)

var errNonCanonical = errors.New("non-canonical base64")

// B64 returns standard base64 encoding without newlines.
func B64(b []byte) string { return base64.StdEncoding.EncodeToString(b) }

// UnB64 decodes standard base64, accepting only the canonical encoding so that
// every text maps to exactly one byte string.
func UnB64(s string) ([]byte, error) {
	if strings.ContainsAny(s, "\r\n") {
		return nil, errNonCanonical
	}
	return base64.StdEncoding.Strict().DecodeString(s)
}
