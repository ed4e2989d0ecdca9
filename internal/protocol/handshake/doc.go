// Package handshake runs the passphrase-authenticated Diffie–Hellman exchange
// that opens a chat session.
//
// # Overview
//
// Both peers know a passphrase. Each derives the same 32-byte PSK from it and
// uses the PSK only to protect the two key-confirmation messages. The session
// key itself comes from an ephemeral finite-field DH exchange over the RFC 3526
// 2048-bit MODP group, so a passive observer who later learns the passphrase
// still cannot read the session.
//
// # Flow
//
// The responder listens and speaks first. SEP is domain.Separator; all integers
// travel as decimal text.
//
//  1. R → I: idR SEP nR
//  2. I → R: nI SEP Box(PSK)(idI SEP nR SEP B)
//  3. R → I: Box(PSK)(idR SEP nI SEP A)
//
// The responder accepts message 2 only if its own nonce nR comes back inside
// the ciphertext and idI is a fresh identifier. The initiator accepts message 3
// only if nI and idR come back. Each side then computes peer^own mod p and
// hashes it into the session key.
//
// # Errors
//
// Every parse, decrypt or verification failure, and a peer hanging up mid
// handshake, is reported as ErrAuthentication. On any failure the transport is
// closed and no key is returned. Other errors are transport or context
// failures.
//
// # Secrets
//
// Run owns Config.PSK and wipes it before returning, along with the private
// exponent and the shared secret. Callers that run more than one handshake
// with the same PSK must pass a copy each time.
package handshake
