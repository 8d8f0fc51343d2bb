package interfaces

import domaintypes "zrtp/internal/domain/types"

// Callback is the narrow capability interface the host implements (spec
// §4.6, §9). The state machine holds a non-owning reference to one; it
// never owns the host, and the host never reaches back into the state
// machine's internals.
type Callback interface {
	// SendData is a best-effort datagram send. The state machine does not
	// retry at this layer; retransmission is driven by ActivateTimer.
	SendData(data []byte) bool

	// ActivateTimer/CancelTimer drive T1/T2 retransmission (spec §4.5, §5).
	// Every ActivateTimer call is eventually balanced by exactly one
	// CancelTimer call or one timer-expiry delivery (spec §5).
	ActivateTimer(ms int32) int32
	CancelTimer() int32

	// SendInfo surfaces an Info/Warning-severity condition; the session
	// continues (spec §7).
	SendInfo(severity domaintypes.Severity, code int)

	// NegotiationFailed surfaces a Severe/ZrtpError-severity condition; the
	// session is fatal (spec §7).
	NegotiationFailed(severity domaintypes.Severity, code int)

	// OtherPartyNotSupported fires when no ZRTP Hello arrived from the peer
	// at all within the detection window, distinct from a mid-negotiation
	// timeout.
	OtherPartyNotSupported()

	// SRTPSecretsReady activates SRTP for one direction; returning false
	// tells the state machine the host rejected the keys.
	SRTPSecretsReady(secrets domaintypes.SRTPSecrets) bool
	SRTPSecretsOff(direction domaintypes.Direction)

	// SASPresent hands the rendered SAS string to the UI for out-of-band
	// comparison, along with whether the peer's ZID record already had
	// SASVerified set.
	SASPresent(sas string, verified bool)

	// SignSAS/CheckSASSignature back the optional sas-sign-support option
	// (spec §6); the host owns the signing key material.
	SignSAS(sasHash []byte) []byte
	CheckSASSignature(sasHash []byte, signature []byte) bool

	// AskEnrollment/InformEnrollment back PBX/MitM enrollment (spec §4.5
	// SASrelay).
	AskEnrollment(info domaintypes.EnrollmentInfo)
	InformEnrollment(info domaintypes.EnrollmentInfo)
}
