// Package session opens chat sessions.
//
// It validates the passphrase, derives the PSK, binds or dials the transport,
// runs the handshake for the matching role and hands back a ready channel.
// Failures come back as *chaterr.Error.
package session
