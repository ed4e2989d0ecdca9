package domain

// Role is the part a peer plays in the handshake.
//
// The Responder listens and speaks first; the Initiator connects.
type Role uint8

const (
	RoleInitiator Role = iota + 1
	RoleResponder
)

func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "initiator"
	case RoleResponder:
		return "responder"
	default:
		return "unknown"
	}
}

// PeerTitle is the label shown in front of messages received from the other side.
func (r Role) PeerTitle() string {
	if r == RoleInitiator {
		return "SERVER"
	}
	return "CLIENT"
}
