package statemachine

import (
	"bytes"
	"crypto/sha256"

	"zrtp/internal/algo"
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// onCommit handles an inbound Commit. Three cases: we're a plain
// Responder (no Commit of our own in flight), we're mid-contention (both
// sides sent Commit and must tie-break per spec §4.5 invariant 4), or a
// stray retransmit of a Commit we already accepted.
func (s *Session) onCommit(msg wire.Message) error {
	c, err := wire.DecodeCommit(msg.Body)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorMalformedPacket)
		return err
	}

	switch s.state {
	case AckDetected, AckSent, Detect:
		return s.acceptAsResponder(c, msg.RawBody)
	case CommitSent:
		return s.resolveContention(c, msg.RawBody)
	case WaitConfirm1:
		// A Multi/PreShared Initiator enters WaitConfirm1 straight after
		// its Commit, so a peer Commit here is still contention.
		if s.neg.Role == domaintypes.RoleInitiator && !s.localCommit.IsDHMode() {
			return s.resolveContention(c, msg.RawBody)
		}
		s.resend()
		return nil
	case WaitDHPart2, WaitConfirm2, WaitConf2Ack:
		s.resend() // peer missed our reply; retransmit rather than restart
		return nil
	default:
		return nil
	}
}

func (s *Session) acceptAsResponder(c domaintypes.CommitMessage, raw []byte) error {
	if !s.algorithmsSupported(c) {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorHelloCompMismatch)
		return nil
	}
	if sha256.Sum256(c.H2[:]) != s.neg.PeerH3 {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereCommitHMACFailed), domaintypes.ErrorConfirmHMACWrong)
		return nil
	}

	s.peerCommit = c
	s.peerCommitRaw = raw
	s.neg.Role = domaintypes.RoleResponder
	s.neg.ZIDi = c.ZID
	s.neg.ZIDr = s.localZID
	s.neg.PeerH2 = c.H2
	s.neg.SelectedHash = c.Hash
	s.neg.SelectedCipher = c.Cipher
	s.neg.SelectedKeyExch = c.KeyExch
	s.neg.SelectedSAS = c.SAS
	s.neg.SelectedAuthTag = c.AuthTag
	s.suite = algo.Resolve(algo.Selection{
		Hash: c.Hash, Cipher: c.Cipher, KeyExch: c.KeyExch, SAS: c.SAS, AuthTag: c.AuthTag,
	})
	s.neg.CommitImage = raw
	s.neg.HelloResponderImage = s.localHelloRaw

	s.cancelTimer()

	if c.IsDHMode() {
		return s.sendDHPart1()
	}
	if c.KeyExch == domaintypes.KeyExchangePrsh {
		return s.acceptPreSharedAsResponder(c)
	}
	return s.acceptMultiStreamAsResponder(c)
}

// resolveContention implements spec §4.5 invariant 4 and the "Contention"
// edge case: the Commit with the numerically larger hvi (DH modes) or
// nonce (Multi/PreShared) wins Initiator; the loser discards its own
// Commit and answers as Responder in place, without restarting Detect.
func (s *Session) resolveContention(peer domaintypes.CommitMessage, raw []byte) error {
	var weWin bool
	if s.localCommit.IsDHMode() {
		weWin = bytes.Compare(s.localCommit.HVI[:], peer.HVI[:]) > 0
	} else {
		weWin = bytes.Compare(s.localNonce[:], peer.Nonce[:]) > 0
	}

	if weWin {
		// Our Commit already in flight wins; the peer will see this and
		// swap to Responder on its side. Nothing to do but keep waiting
		// for DHPart1.
		return nil
	}

	s.cancelTimer()
	s.localCommit = domaintypes.CommitMessage{}
	s.localCommitRaw = nil
	s.preparedDHPart2 = domaintypes.DHPartMessage{}
	return s.acceptAsResponder(peer, raw)
}

func (s *Session) algorithmsSupported(c domaintypes.CommitMessage) bool {
	reg := s.cfg.Registry
	return tagIn(reg.Hashes, c.Hash) && tagIn(reg.Ciphers, c.Cipher) &&
		tagIn(reg.KeyExch, c.KeyExch) && tagIn(reg.SASTypes, c.SAS) && tagIn(reg.AuthTags, c.AuthTag)
}

func tagIn(list []domaintypes.AlgoTag, want domaintypes.AlgoTag) bool {
	for _, t := range list {
		if t == want {
			return true
		}
	}
	return false
}
