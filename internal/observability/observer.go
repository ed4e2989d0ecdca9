// Package observability defines the metric events emitted by the handshake
// and the chat channel.
package observability

import "time"

type HandshakeResult string

const (
	HandshakeResultOK        HandshakeResult = "ok"
	HandshakeResultAuthFail  HandshakeResult = "auth_failed"
	HandshakeResultTransport HandshakeResult = "transport_error"
	HandshakeResultTimeout   HandshakeResult = "timeout"
)

type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

type CloseReason string

const (
	CloseReasonLocalExit  CloseReason = "local_exit"
	CloseReasonPeerExit   CloseReason = "peer_exit"
	CloseReasonPeerClosed CloseReason = "peer_closed"
	CloseReasonIntegrity  CloseReason = "integrity_failure"
	CloseReasonTransport  CloseReason = "transport_error"
)

// Observer receives session metric events.
type Observer interface {
	Handshake(role string, result HandshakeResult, d time.Duration)
	// HandshakeState reports every handshake state transition.
	HandshakeState(role, state string)
	Message(dir Direction, size int)
	Close(reason CloseReason)
}

type noopObserver struct{}

func (noopObserver) Handshake(string, HandshakeResult, time.Duration) {}
func (noopObserver) HandshakeState(string, string)                    {}
func (noopObserver) Message(Direction, int)                           {}
func (noopObserver) Close(CloseReason)                                {}

// Noop is used when metrics are disabled.
var Noop Observer = noopObserver{}

// OrNoop returns o, or Noop when o is nil.
func OrNoop(o Observer) Observer {
	if o == nil {
		return Noop
	}
	return o
}
