package statemachine

import (
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/keyschedule"
)

// runPreSharedKeySchedule derives s0 for the Prsh fast path: no DH
// exchange, keyed off the peer's cached rs1 instead of a MultiStream
// leg's ZRTPSess (spec §1, RFC 6189 §4.4).
func (s *Session) runPreSharedKeySchedule(nonce [16]byte) error {
	rec, err := s.cache.Get(s.peerZID)
	if err != nil {
		return err
	}
	if !rec.RS1Valid() {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorNoSharedSecret)
		return nil
	}

	totalHash := keyschedule.TotalHash(s.suite.Hash, s.neg)
	ctx := keyschedule.Context(s.neg.ZIDi, s.neg.ZIDr, totalHash)

	s0 := keyschedule.PreSharedS0(s.suite.MAC, rec.RS1[:], nonce[:], ctx, s.suite.Hash.Size()*8)
	secrets := keyschedule.Derive(s.suite.MAC, s.suite.Hash, s0, ctx, s.suite.CipherKeyLen, 14)
	secrets.TotalHash = totalHash
	secrets.SASValue = keyschedule.RenderSAS(s.neg.SelectedSAS.String(), secrets.SASHash)
	s.secrets = secrets

	s.callback.SASPresent(secrets.SASValue, rec.Flags&domaintypes.FlagSASVerified != 0)
	return nil
}

// acceptPreSharedAsResponder answers a Prsh Commit directly with Confirm1,
// same shape as the MultiStream responder path but keyed off rs1.
func (s *Session) acceptPreSharedAsResponder(c domaintypes.CommitMessage) error {
	if err := s.runPreSharedKeySchedule(c.Nonce); err != nil {
		return err
	}
	if s.state == Terminated {
		return nil
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
