package types

import "encoding/hex"

// ZIDLength is the byte length of a ZRTP endpoint identifier.
const ZIDLength = 12

// ZID identifies a ZRTP endpoint persistently across sessions.
type ZID [ZIDLength]byte

// String renders the ZID as lowercase hex for logging.
func (z ZID) String() string { return hex.EncodeToString(z[:]) }

// Slice returns the ZID as a []byte.
func (z ZID) Slice() []byte { return z[:] }

// IsZero reports whether z is the all-zero ZID (used as a not-found sentinel).
func (z ZID) IsZero() bool { return z == ZID{} }

// Role is which side of the negotiation an endpoint is playing.
type Role int

const (
	// RoleUndetermined is the role before Hello/Commit resolves it.
	RoleUndetermined Role = iota
	RoleInitiator
	RoleResponder
)

func (r Role) String() string {
	switch r {
	case RoleInitiator:
		return "Initiator"
	case RoleResponder:
		return "Responder"
	default:
		return "Undetermined"
	}
}

// Direction selects which leg of a bidirectional SRTP stream a key set applies to.
type Direction int

const (
	DirectionOutbound Direction = iota
	DirectionInbound
)

func (d Direction) String() string {
	if d == DirectionOutbound {
		return "outbound"
	}
	return "inbound"
}
