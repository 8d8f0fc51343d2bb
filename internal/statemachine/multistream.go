package statemachine

import (
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/keyschedule"
)

// runMultiStreamKeySchedule derives s0 for a MultiStream leg directly from
// the master stream's ZRTPSess key and the winning Commit's nonce, with no
// DH exchange (spec §4.4's MultiStream note, §4.5's "identical minus the DH
// exchanges").
func (s *Session) runMultiStreamKeySchedule(nonce [16]byte) error {
	totalHash := keyschedule.TotalHash(s.suite.Hash, s.neg)
	ctx := keyschedule.Context(s.neg.ZIDi, s.neg.ZIDr, totalHash)

	s0 := keyschedule.MultiStreamS0(s.suite.MAC, s.cfg.MasterZRTPSess, nonce[:], ctx, s.suite.Hash.Size()*8)
	secrets := keyschedule.Derive(s.suite.MAC, s.suite.Hash, s0, ctx, s.suite.CipherKeyLen, 14)
	secrets.TotalHash = totalHash
	secrets.SASValue = keyschedule.RenderSAS(s.neg.SelectedSAS.String(), secrets.SASHash)
	s.secrets = secrets

	s.callback.SASPresent(secrets.SASValue, false)
	return nil
}

// acceptMultiStreamAsResponder answers a Mult Commit directly with
// Confirm1: there is no DHPart round-trip to wait for (spec §4.5).
func (s *Session) acceptMultiStreamAsResponder(c domaintypes.CommitMessage) error {
	if err := s.runMultiStreamKeySchedule(c.Nonce); err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
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
