package statemachine

import (
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/wire"
)

// sendErrorLocked transmits an Error packet and starts the T2-governed
// wait for ErrorACK (spec §4.5, §7). Callers already hold s.mu.
func (s *Session) sendErrorLocked(subcode domaintypes.ErrorSubcode) {
	body := wire.EncodeError(domaintypes.ErrorMessage{Code: subcode})
	s.cancelTimer()
	s.send(domaintypes.MsgError, body)
	s.timer = newT2Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
}

// onError handles a peer-originated Error: report it to the host with a
// negation sign to distinguish inbound origin (spec §4.5), ack it, and end
// the session.
func (s *Session) onError(msg wire.Message) error {
	e, err := wire.DecodeError(msg.Body)
	if err != nil {
		return err
	}
	s.send(domaintypes.MsgErrorACK, wire.EncodeAck())
	s.cancelTimer()
	s.callback.NegotiationFailed(domaintypes.SeverityZRTPError, -int(e.Code))
	s.state = Terminated
	return nil
}

func (s *Session) onErrorAck() error {
	s.cancelTimer()
	return nil
}
