// Package transport carries dhchat frames between two peers.
//
// Stream adapts any byte stream (normally a TCP connection) with a framing
// codec; WebSocket maps one frame to one binary message. Listen accepts
// exactly one peer and Dial connects to one, for either kind.
//
// Context deadlines and cancellation are mapped onto connection deadlines,
// so a cancelled read unblocks instead of leaking.
package transport
