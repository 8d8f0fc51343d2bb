package statemachine

import (
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// clearHMAC computes the truncated HMAC authenticating a GoClear/ClearACK
// transition (spec §4.5).
func (s *Session) clearHMAC() [8]byte {
	var out [8]byte
	copy(out[:], s.suite.MAC.Sum(s.clearHMACKey, []byte("GoClear")))
	return out
}

// SendGoClear requests a fallback to clear (unencrypted) mode. It is only
// meaningful once SecureState has established suite/clearHMACKey.
func (s *Session) SendGoClear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SecureState {
		return nil
	}
	body := wire.EncodeGoClear(domaintypes.GoClearMessage{ClearHMAC: s.clearHMAC()})
	s.send(domaintypes.MsgGoClear, body)
	s.timer = newT2Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	return nil
}

// onGoClear validates the peer's GoClear request and, since this
// Callback Surface has no separate host-approval hook, honors it
// immediately: turn SRTP off in both directions and ack (spec §4.5).
func (s *Session) onGoClear(msg wire.Message) error {
	if s.state != SecureState {
		return nil
	}
	g, err := wire.DecodeGoClear(msg.Body)
	if err != nil {
		return err
	}
	if g.ClearHMAC != s.clearHMAC() {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorGoClearNotAllowed)
		return nil
	}
	s.callback.SendInfo(domaintypes.SeverityWarning, int(domaintypes.WarningGoClearReceived))
	s.callback.SRTPSecretsOff(domaintypes.DirectionOutbound)
	s.callback.SRTPSecretsOff(domaintypes.DirectionInbound)
	s.send(domaintypes.MsgClearACK, wire.EncodeAck())
	s.state = ClearState
	return nil
}

func (s *Session) onClearAck() error {
	if s.state != SecureState {
		return nil
	}
	s.cancelTimer()
	s.callback.SRTPSecretsOff(domaintypes.DirectionOutbound)
	s.callback.SRTPSecretsOff(domaintypes.DirectionInbound)
	s.state = ClearState
	return nil
}
