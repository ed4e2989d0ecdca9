// Package crypto exposes the key material primitives used by dhchat.
//
// Contents
//
//   - Passphrase key derivation with Argon2id or scrypt (DerivePSK)
//   - The finite-field Diffie–Hellman group and ephemeral keys (Group, DHKey)
//   - Uniform random integers for identifiers, nonces and exponents
//   - Session key hashing (SessionKey)
//   - Short fingerprints for display (Fingerprint)
//
// # Notes
//
// Integers travel as decimal text; every value read from the wire must be
// range-checked by the caller before use. Secrets returned here should be
// wiped with internal/util/memzero once they are no longer needed.
package crypto
