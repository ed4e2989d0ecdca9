package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short hex fingerprint of key material.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars). Both peers
// of a session print the same fingerprint, so users can compare them out of
// band.
func Fingerprint(b []byte) string {
	sum := sha256.Sum256(append([]byte("dhchat/fingerprint/v1"), b...))
	return hex.EncodeToString(sum[:10])
}
