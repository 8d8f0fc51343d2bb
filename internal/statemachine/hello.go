package statemachine

import (
	"zrtp/internal/algo"
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// supportedVersion is the only ZRTP version this endpoint speaks; a Hello
// advertising anything else is a hard failure (spec §4.5,
// ErrorUnsuppZRTPVersion).
const supportedVersion = "1.10"

func (s *Session) onHello(msg wire.Message) error {
	if s.state == Terminated || s.state == SecureState {
		return nil
	}

	h, err := wire.DecodeHello(msg.Body)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorMalformedPacket)
		return err
	}
	h.RawImage = msg.RawBody

	if h.Version != supportedVersion {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorUnsuppZRTPVersion)
		return nil
	}
	if h.ZID == s.localZID {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorEqualZIDHello)
		return nil
	}

	s.peerHello = h
	s.peerHelloRaw = msg.RawBody
	s.peerZID = h.ZID
	s.neg.PeerH3 = h.H3
	s.callback.SendInfo(domaintypes.SeverityInfo, int(domaintypes.InfoHelloReceived))

	s.send(domaintypes.MsgHelloACK, wire.EncodeAck())

	if s.state == Initial {
		s.state = Detect
	}
	if s.state == Detect {
		s.state = AckSent
	}

	s.maybeSendCommit()
	return nil
}

func (s *Session) onHelloACK() error {
	if s.state == Detect || s.state == AckSent {
		s.state = AckDetected
	}
	s.maybeSendCommit()
	return nil
}

// maybeSendCommit fires the Initiator-side Commit once both this
// endpoint's Hello has been acknowledged and the peer's Hello has arrived
// (spec §4.5 Detect/AckSent/AckDetected states). A Passive endpoint never
// sends Commit: this returns at once for it, and it answers a
// peer-initiated Commit through onCommit.
func (s *Session) maybeSendCommit() {
	if s.cfg.Passive {
		return
	}
	if s.state != AckDetected {
		return
	}
	if s.peerHelloRaw == nil {
		return
	}
	s.sendCommit()
}

// sendCommit resolves algorithms against the peer's Hello, precommits to a
// DH keypair so hvi can bind DHPart2 before it is ever transmitted (spec
// §4.5's hvi = H(DHPart2 || Hello_Responder)), and transmits Commit.
func (s *Session) sendCommit() {
	sel := algo.Select(s.cfg.Registry, s.peerHello)
	if sel.DHAESMismatch {
		s.callback.SendInfo(domaintypes.SeverityWarning, int(domaintypes.WarningDHAESmismatch))
	}
	if s.cfg.ParanoidMode && fellBackToMandatory(s.cfg.Registry, s.peerHello, sel) {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorHelloCompMismatch)
		return
	}
	s.neg.SelectedHash = sel.Hash
	s.neg.SelectedCipher = sel.Cipher
	s.neg.SelectedKeyExch = sel.KeyExch
	s.neg.SelectedSAS = sel.SAS
	s.neg.SelectedAuthTag = sel.AuthTag
	s.suite = algo.Resolve(sel)

	c := domaintypes.CommitMessage{
		H2:      s.localChain.H2,
		ZID:     s.localZID,
		Hash:    sel.Hash,
		Cipher:  sel.Cipher,
		AuthTag: sel.AuthTag,
		KeyExch: sel.KeyExch,
		SAS:     sel.SAS,
	}

	if c.IsDHMode() {
		priv, pub, err := s.suite.KeyExch.GenerateKeypair()
		if err != nil {
			s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
			return
		}
		s.neg.DHPrivateSelf = priv
		s.neg.DHPublicSelf = pub

		dhpart2 := domaintypes.DHPartMessage{H1: s.localChain.H1, PublicKey: pub}
		dhpart2Body := wire.EncodeDHPart(dhpart2)
		macTag := s.suite.MAC.Sum(s.localChain.H0[:], wire.DHPartMACCoveredBody(dhpart2Body, 0, len(pub)))
		copy(dhpart2.MAC[:], macTag)
		s.preparedDHPart2 = dhpart2

		// hvi covers the whole DHPart2 image, MAC and padding included
		// (spec §4.5's hvi = H(DHPart2 || Hello_Responder)): unlike the
		// deferred MAC above, hvi is checked once DHPart2 is fully formed,
		// so onDHPart2 must hash the identical full byte range back.
		hviIn := wire.EncodeDHPart(dhpart2)
		hvi := s.suite.Hash.Sum(hviIn, s.peerHelloRaw)
		copy(c.HVI[:], hvi)
	} else {
		copy(c.Nonce[:], s.localNonce[:])
	}

	body := wire.EncodeCommit(c)
	mac := s.suite.MAC.Sum(s.localChain.H1[:], wire.CommitMACCoveredBody(body, 0, c.IsDHMode()))
	copy(c.MAC[:], mac)
	body = wire.EncodeCommit(c)

	raw := s.send(domaintypes.MsgCommit, body)
	s.localCommitRaw = raw[:len(raw)-wire.CRCBytes]
	s.localCommit = c

	s.neg.Role = domaintypes.RoleInitiator
	s.neg.ZIDi = s.localZID
	s.neg.ZIDr = s.peerZID
	s.neg.CommitImage = s.localCommitRaw
	s.neg.HelloResponderImage = s.peerHelloRaw

	s.cancelTimer()

	if !c.IsDHMode() {
		var scheduleErr error
		if c.KeyExch == domaintypes.KeyExchangePrsh {
			scheduleErr = s.runPreSharedKeySchedule(s.localNonce)
		} else {
			scheduleErr = s.runMultiStreamKeySchedule(s.localNonce)
		}
		if scheduleErr != nil {
			s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
			return
		}
		if s.state == Terminated {
			return
		}
		s.timer = newT2Timer()
		if ms, ok := s.timer.next(); ok {
			s.callback.ActivateTimer(ms)
		}
		s.state = WaitConfirm1
		return
	}

	s.timer = newT1Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = CommitSent
}

// fellBackToMandatory reports whether any family in sel was resolved to
// algo.Mandatory's tag rather than one found in both local's preference
// list and the peer's Hello, meaning the peer shared no preferred algorithm
// for that family.
func fellBackToMandatory(local algo.Registry, peer domaintypes.HelloParameters, sel algo.Selection) bool {
	offered := func(l, p []domaintypes.AlgoTag, t domaintypes.AlgoTag) bool { return tagIn(l, t) && tagIn(p, t) }
	return !offered(local.Hashes, peer.Hashes, sel.Hash) || !offered(local.Ciphers, peer.Ciphers, sel.Cipher) ||
		!offered(local.KeyExch, peer.KeyExch, sel.KeyExch) || !offered(local.SASTypes, peer.SASTypes, sel.SAS) ||
		!offered(local.AuthTags, peer.AuthTags, sel.AuthTag)
}
