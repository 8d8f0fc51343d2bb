package commands

import (
	"crypto/ed25519"
	"crypto/rand"
	"fmt"

	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/statemachine"
	"zrtp/internal/transport"
)

// demoCallback implements interfaces.Callback by printing every event to
// stdout and routing outbound packets through a shared transport.Loopback,
// the CLI's stand-in for a real RTP control channel and UI layer. It signs
// the SAS hash with an ephemeral ed25519 key generated at startup, standing
// in for the long-term identity key a real deployment would load from disk.
type demoCallback struct {
	name string
	lb   *transport.Loopback
	peer *statemachine.Session

	signPub  ed25519.PublicKey
	signPriv ed25519.PrivateKey
	peerPub  ed25519.PublicKey // set once the peer callback is known, for CheckSASSignature

	timerActive bool
}

func newDemoCallback(name string, lb *transport.Loopback) *demoCallback {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic("commands: generate sas-sign key: " + err.Error())
	}
	return &demoCallback{name: name, lb: lb, signPub: pub, signPriv: priv}
}

func (c *demoCallback) SendData(data []byte) bool {
	c.lb.SendTo(c.peer, data)
	return true
}

func (c *demoCallback) ActivateTimer(ms int32) int32 {
	c.timerActive = true
	return ms
}

func (c *demoCallback) CancelTimer() int32 {
	c.timerActive = false
	return 0
}

func (c *demoCallback) SendInfo(severity domaintypes.Severity, code int) {
	fmt.Printf("[%s] info(%s): %d\n", c.name, severity, code)
}

func (c *demoCallback) NegotiationFailed(severity domaintypes.Severity, code int) {
	fmt.Printf("[%s] FAILED(%s): %d\n", c.name, severity, code)
}

func (c *demoCallback) OtherPartyNotSupported() {
	fmt.Printf("[%s] peer sent no ZRTP Hello\n", c.name)
}

func (c *demoCallback) SRTPSecretsReady(secrets domaintypes.SRTPSecrets) bool {
	fmt.Printf("[%s] srtp secrets ready: %s (%s/%s)\n", c.name, secrets.Direction, secrets.Cipher, secrets.AuthTag)
	return true
}

func (c *demoCallback) SRTPSecretsOff(direction domaintypes.Direction) {
	fmt.Printf("[%s] srtp secrets off: %s\n", c.name, direction)
}

func (c *demoCallback) SASPresent(sas string, verified bool) {
	fmt.Printf("[%s] SAS: %s (verified=%v)\n", c.name, sas, verified)
}

func (c *demoCallback) SignSAS(sasHash []byte) []byte {
	return ed25519.Sign(c.signPriv, sasHash)
}

func (c *demoCallback) CheckSASSignature(sasHash []byte, signature []byte) bool {
	if len(c.peerPub) == 0 {
		return len(signature) == 0
	}
	return ed25519.Verify(c.peerPub, sasHash, signature)
}

func (c *demoCallback) AskEnrollment(info domaintypes.EnrollmentInfo) {
	fmt.Printf("[%s] enrollment requested: %d\n", c.name, info)
}
func (c *demoCallback) InformEnrollment(info domaintypes.EnrollmentInfo) {
	fmt.Printf("[%s] enrollment: %d\n", c.name, info)
}
