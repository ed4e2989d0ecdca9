package handshake

// State is a handshake state.
type State uint8

const (
	StateStart State = iota
	StateIdentitySent
	StateIdentityReceived
	StateConfirmSent
	StateConfirmReceived
	StateKeyDerived
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateIdentitySent:
		return "identity_sent"
	case StateIdentityReceived:
		return "identity_received"
	case StateConfirmSent:
		return "confirm_sent"
	case StateConfirmReceived:
		return "confirm_received"
	case StateKeyDerived:
		return "key_derived"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}
