// Package chat runs the interactive message loop on top of an open channel.
//
// Two producers feed one consumer: a goroutine reading lines of local input,
// and a goroutine receiving from the peer. Only the consumer writes output and
// sends, so per-direction ordering is kept and only one receive is ever in
// flight.
package chat
