package domain

import "dhchat/internal/util/memzero"

// SessionKeySize is the size of a derived session key.
const SessionKeySize = 32

// Session is the outcome of a successful handshake.
//
// Key is owned by whoever consumes the session; it is wiped by Wipe once the
// secure channel has derived its traffic keys.
type Session struct {
	Role    Role
	Key     [SessionKeySize]byte
	LocalID string
	PeerID  string
}

// Wipe zeroes the session key.
func (s *Session) Wipe() {
	if s == nil {
		return
	}
	memzero.Zero(s.Key[:])
}
