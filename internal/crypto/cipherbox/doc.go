// Package cipherbox implements the symmetric boxes that protect dhchat traffic.
//
// Box seals the handshake confirmation messages: PKCS#7 padding, AES-256-CBC
// with a random IV per message, and an HMAC-SHA256 tag over IV and
// ciphertext, rendered as base64 text. AEAD seals chat records with
// ChaCha20-Poly1305 under a per-direction key and a sequence-number nonce.
//
// Both boxes fail closed: any decode, tag or padding problem is reported as
// ErrDecrypt and callers must treat it as an integrity failure.
package cipherbox
