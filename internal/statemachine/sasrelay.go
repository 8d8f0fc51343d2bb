package statemachine

import (
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"

	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/keyschedule"
	"zrtp/internal/wire"
)

// relayKeys derives the pair of keys that protect a SASrelay body from the
// shared MiTM/PBX secret in a ZID record (spec §4.5 SASrelay, §6). Real
// ZRTP folds this secret into the ordinary key schedule as s3; this
// endpoint only needs SASrelay in isolation, so instead of running the
// full schedule a second time it stretches the MiTM secret with HKDF
// (RFC 5869) and reads two independent keys off the expanded output.
func (s *Session) relayKeys(mitmKey [domaintypes.RSLength]byte) (zrtpKey, macKey []byte, err error) {
	r := hkdf.New(sha256.New, mitmKey[:], nil, []byte("ZRTP-SASrelay"))
	out := make([]byte, 64)
	if _, err := io.ReadFull(r, out); err != nil {
		return nil, nil, fmt.Errorf("statemachine: hkdf stretch of mitm key: %w", err)
	}
	return out[:32], out[32:], nil
}

// SendSASrelay relays an upstream SAS hash to peer as a trusted PBX MitM
// (spec §4.5 SASrelay). It requires this endpoint to already hold a
// MITMKeyAvailable record for peer.
func (s *Session) SendSASrelay(peer domaintypes.ZID, upstreamSASHash []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != SecureState {
		return nil
	}
	rec, err := s.cache.Get(peer)
	if err != nil {
		return err
	}
	if rec.Flags&domaintypes.FlagMITMKeyAvailable == 0 {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorSASuntrustedMiTM)
		return nil
	}

	zrtpKey, macKey, err := s.relayKeys(rec.MiTMKey)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}
	ciphertext, iv, macTag, err := keyschedule.SealConfirm(s.suite.Cipher, s.suite.MAC, zrtpKey, macKey, upstreamSASHash)
	if err != nil {
		return err
	}
	body := wire.EncodeSASrelay(domaintypes.SASrelayMessage{
		MAC: macTag, IV: ivArray(iv), Flags: domaintypes.ConfirmFlags{PBXEnrollment: true},
		RenderSAS: s.neg.SelectedSAS, CipherText: ciphertext,
	})
	s.send(domaintypes.MsgSASrelay, body)
	return nil
}

func ivArray(iv []byte) [16]byte {
	var out [16]byte
	copy(out[:], iv)
	return out
}

// onSASrelay honors a PBX-relayed SAS only if this endpoint has already
// enrolled that PBX (MITMKeyAvailable); otherwise it raises
// SASuntrustedMiTM (spec §4.5).
func (s *Session) onSASrelay(msg wire.Message) error {
	if s.state != SecureState {
		return nil
	}
	relay, err := wire.DecodeSASrelay(msg.Body)
	if err != nil {
		return err
	}

	rec, err := s.cache.Get(s.peerZID)
	if err != nil {
		return err
	}
	if rec.Flags&domaintypes.FlagMITMKeyAvailable == 0 {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorSASuntrustedMiTM)
		return nil
	}

	zrtpKey, macKey, err := s.relayKeys(rec.MiTMKey)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}
	plaintext, ok, err := keyschedule.OpenConfirm(s.suite.Cipher, s.suite.MAC, zrtpKey, macKey, relay.CipherText, relay.IV[:], relay.MAC)
	if err != nil {
		return err
	}
	if !ok {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorSASuntrustedMiTM)
		return nil
	}

	sas := keyschedule.RenderSAS(relay.RenderSAS.String(), plaintext)
	s.callback.SASPresent(sas, true)
	s.send(domaintypes.MsgRelayACK, wire.EncodeAck())
	return nil
}

func (s *Session) onRelayAck() error {
	return nil
}
