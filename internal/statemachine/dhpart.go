package statemachine

import (
	"crypto/sha256"

	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// sendDHPart1 is the Responder's reply to an accepted Commit (spec §4.5).
func (s *Session) sendDHPart1() error {
	priv, pub, err := s.suite.KeyExch.GenerateKeypair()
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}
	s.neg.DHPrivateSelf = priv
	s.neg.DHPublicSelf = pub

	d := domaintypes.DHPartMessage{H1: s.localChain.H1, PublicKey: pub}
	body := wire.EncodeDHPart(d)
	mac := s.suite.MAC.Sum(s.localChain.H0[:], wire.DHPartMACCoveredBody(body, 0, len(pub)))
	copy(d.MAC[:], mac)
	body = wire.EncodeDHPart(d)

	raw := s.send(domaintypes.MsgDHPart1, body)
	s.neg.DHPart1Image = raw[:len(raw)-wire.CRCBytes]

	s.timer = newT1Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = WaitDHPart2
	return nil
}

// onDHPart1 is the Initiator's continuation once the Responder's public
// key arrives: complete the DH exchange, release the precommitted
// DHPart2, and run the key schedule (spec §4.5 CommitSent state).
func (s *Session) onDHPart1(msg wire.Message) error {
	if s.state != CommitSent {
		return nil
	}
	d, err := wire.DecodeDHPart(msg.Body)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorMalformedPacket)
		return err
	}

	// The Responder's Hello committed to H3 but its own hash chain never
	// surfaces an intermediate H2 on the wire (it sends no Commit), so the
	// link back to that commitment is a two-hop hash from the H1 DHPart1
	// reveals here (spec §4.5, §8).
	peerH2 := sha256.Sum256(d.H1[:])
	if sha256.Sum256(peerH2[:]) != s.neg.PeerH3 {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereDH1HMACFailed), domaintypes.ErrorConfirmHMACWrong)
		return nil
	}
	s.neg.PeerH2 = peerH2
	s.peerDHPart1 = d

	s.neg.PeerH1 = d.H1
	s.neg.DHPublicPeer = d.PublicKey

	dhResult, err := s.suite.KeyExch.SharedSecret(s.neg.DHPrivateSelf, d.PublicKey)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorDHErrorWrongPV)
		return err
	}
	s.neg.DHResult = dhResult
	s.neg.DHPart1Image = msg.RawBody

	s.cancelTimer()

	dhpart2Body := wire.EncodeDHPart(s.preparedDHPart2)
	raw := s.send(domaintypes.MsgDHPart2, dhpart2Body)
	s.neg.DHPart2Image = raw[:len(raw)-wire.CRCBytes]
	s.neg.CommitImage = s.localCommitRaw
	s.neg.HelloResponderImage = s.peerHelloRaw

	if err := s.runKeySchedule(); err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}

	s.timer = newT2Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = WaitConfirm1
	return nil
}

// onDHPart2 is the Responder's continuation: validate hvi and the
// deferred Commit HMAC (both now verifiable since DHPart2 reveals H1),
// complete the DH exchange, and run the key schedule (spec §4.5
// WaitConfirm2 state, invariant 5).
func (s *Session) onDHPart2(msg wire.Message) error {
	if s.state != WaitDHPart2 {
		return nil
	}
	d, err := wire.DecodeDHPart(msg.Body)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorMalformedPacket)
		return err
	}
	s.peerDHPart2 = d

	// hvi was computed by the Initiator over the whole DHPart2 image
	// (MAC and padding included, see sendCommit), so the matching check
	// here must hash the same full range, not the MAC-excluded prefix.
	wantHVI := s.suite.Hash.Sum(msg.Body, s.localHelloRaw)
	if !bytesEqual(wantHVI, s.peerCommit.HVI[:]) {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorDHErrorWrongHVI)
		return nil
	}

	macOf := func(data []byte) [8]byte {
		var out [8]byte
		copy(out[:], s.suite.MAC.Sum(d.H1[:], data))
		return out
	}
	commitBody := wire.CommitMACCoveredBody(s.peerCommitRaw, wire.HeaderBytes, s.peerCommit.IsDHMode())
	if !wire.VerifyDeferredMAC(commitBody, s.peerCommit.MAC, macOf) {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereCommitHMACFailed), domaintypes.ErrorConfirmHMACWrong)
		return nil
	}

	s.neg.PeerH1 = d.H1
	s.neg.DHPublicPeer = d.PublicKey

	dhResult, err := s.suite.KeyExch.SharedSecret(s.neg.DHPrivateSelf, d.PublicKey)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorDHErrorWrongPV)
		return err
	}
	s.neg.DHResult = dhResult
	s.neg.DHPart2Image = msg.RawBody

	s.cancelTimer()

	if err := s.runKeySchedule(); err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}

	if err := s.sendConfirm(domaintypes.MsgConfirm1); err != nil {
		return err
	}

	s.timer = newT2Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = WaitConfirm2
	return nil
}

// verifyPeerDHPartMAC checks the deferred MAC on the peer's DHPart1
// (Initiator's view) or DHPart2 (Responder's view), now verifiable since
// Confirm has just revealed the peer's H0 (spec §4.5, §8). Non-DH modes
// (Mult/Prsh) never sent a DHPart message, so there's nothing to verify.
// On failure it fails the session itself with the message-specific
// subcode and returns false.
func (s *Session) verifyPeerDHPartMAC() bool {
	if s.neg.SelectedKeyExch == domaintypes.KeyExchangeMult || s.neg.SelectedKeyExch == domaintypes.KeyExchangePrsh {
		return true
	}

	macOf := func(data []byte) [8]byte {
		var out [8]byte
		copy(out[:], s.suite.MAC.Sum(s.neg.PeerH0[:], data))
		return out
	}

	if s.neg.Role == domaintypes.RoleInitiator {
		body := wire.DHPartMACCoveredBody(s.neg.DHPart1Image, wire.HeaderBytes, len(s.peerDHPart1.PublicKey))
		if wire.VerifyDeferredMAC(body, s.peerDHPart1.MAC, macOf) {
			return true
		}
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereDH1HMACFailed), domaintypes.ErrorConfirmHMACWrong)
		return false
	}
	body := wire.DHPartMACCoveredBody(s.neg.DHPart2Image, wire.HeaderBytes, len(s.peerDHPart2.PublicKey))
	if wire.VerifyDeferredMAC(body, s.peerDHPart2.MAC, macOf) {
		return true
	}
	s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereDH2HMACFailed), domaintypes.ErrorConfirmHMACWrong)
	return false
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
