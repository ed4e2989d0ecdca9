// Package channel carries chat messages over an established session.
//
// Every message is wrapped in a checksum envelope (payload SEP hex(sha256)),
// sealed with ChaCha20-Poly1305 under a per-direction key derived from the
// session key, and sent as one base64 text frame. Sequence numbers are
// implicit: both sides count frames, so a dropped, replayed or reordered frame
// fails to open.
//
// Any frame that fails to decode, open or verify ends the channel with
// ErrIntegrity.
package channel
