package statemachine

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	zcrypto "zrtp/internal/crypto"
	domaintypes "zrtp/internal/domain/types"
	"zrtp/internal/keyschedule"
	"zrtp/internal/wire"
)

// encodeConfirmInner/decodeConfirmInner serialize the portion of a Confirm
// body that travels encrypted inside CipherText (spec §4.4): everything
// but H0, which is sent in the clear because a receiver needs it
// immediately to verify the previous message's deferred MAC, before it
// has decrypted anything.
func encodeConfirmInner(flags domaintypes.ConfirmFlags, cacheExpireSec int32, sig []byte) []byte {
	out := make([]byte, 0, 10+4+len(sig))
	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], flags.SignatureLengthWords)
	out = append(out, u16[:]...)
	out = append(out, boolByte(flags.SASVerified), boolByte(flags.AllowClearFallback),
		boolByte(flags.Disclosure), boolByte(flags.PBXEnrollment))
	var i32 [4]byte
	binary.BigEndian.PutUint32(i32[:], uint32(cacheExpireSec))
	out = append(out, i32[:]...)
	var sigLen [4]byte
	binary.BigEndian.PutUint32(sigLen[:], uint32(len(sig)))
	out = append(out, sigLen[:]...)
	out = append(out, sig...)
	return out
}

func decodeConfirmInner(b []byte) (domaintypes.ConfirmFlags, int32, []byte, bool) {
	if len(b) < 14 {
		return domaintypes.ConfirmFlags{}, 0, nil, false
	}
	var f domaintypes.ConfirmFlags
	f.SignatureLengthWords = binary.BigEndian.Uint16(b[0:2])
	f.SASVerified = b[2] != 0
	f.AllowClearFallback = b[3] != 0
	f.Disclosure = b[4] != 0
	f.PBXEnrollment = b[5] != 0
	cacheExpire := int32(binary.BigEndian.Uint32(b[6:10]))
	sigLen := binary.BigEndian.Uint32(b[10:14])
	if len(b) < 14+int(sigLen) {
		return domaintypes.ConfirmFlags{}, 0, nil, false
	}
	return f, cacheExpire, b[14 : 14+sigLen], true
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// confirmKeys picks the zrtpkey/mackey pair for a Confirm exchange: the
// Responder always encrypts Confirm1 with its own (Responder) keys and
// decrypts Confirm2 with the Initiator's; the Initiator does the reverse.
func (s *Session) confirmKeys(sending bool) (zrtpKey, macKey []byte) {
	initiatorSends := s.neg.Role == domaintypes.RoleInitiator && sending
	responderReceives := s.neg.Role == domaintypes.RoleResponder && !sending
	if initiatorSends || responderReceives {
		return s.secrets.ZRTPKeyInitiator, s.secrets.HMACKeyInitiator
	}
	return s.secrets.ZRTPKeyResponder, s.secrets.HMACKeyResponder
}

// runKeySchedule computes total_hash, s0, and the full derived key set
// from the DH result and the transcript accumulated so far (spec §4.4).
func (s *Session) runKeySchedule() error {
	totalHash := keyschedule.TotalHash(s.suite.Hash, s.neg)
	ctx := keyschedule.Context(s.neg.ZIDi, s.neg.ZIDr, totalHash)

	rec, err := s.cache.Get(s.peerZID)
	if err != nil {
		return err
	}

	var rs keyschedule.RetainedSecrets
	if rec.RS1Valid() {
		rs.RS1 = rec.RS1[:]
		rs.RS1Present = true
	} else {
		s.callback.SendInfo(domaintypes.SeverityWarning, int(domaintypes.WarningNoRSMatch))
	}

	s0 := keyschedule.S0(s.suite.Hash, s.suite.MAC, s.neg.DHResult, ctx, rs)
	secrets := keyschedule.Derive(s.suite.MAC, s.suite.Hash, s0, ctx, s.suite.CipherKeyLen, 14)
	secrets.TotalHash = totalHash
	secrets.SASValue = keyschedule.RenderSAS(s.neg.SelectedSAS.String(), secrets.SASHash)
	s.secrets = secrets

	s.callback.SASPresent(secrets.SASValue, rec.Flags&domaintypes.FlagSASVerified != 0)
	return nil
}

// sendConfirm builds and transmits Confirm1 (Responder) or Confirm2
// (Initiator), encrypting everything but the revealed H0 (spec §4.4).
func (s *Session) sendConfirm(msgType domaintypes.MessageType) error {
	flags := domaintypes.ConfirmFlags{Disclosure: s.cfg.DisclosureFlag}
	var sig []byte
	if s.cfg.SASSignSupport && len(s.secrets.SASHash) > 0 {
		sig = s.callback.SignSAS(s.secrets.SASHash)
		flags.SignatureLengthWords = uint16(len(sig) / 4)
	}
	plaintext := encodeConfirmInner(flags, domaintypes.DefaultRSExpireSeconds, sig)

	zrtpKey, macKey := s.confirmKeys(true)
	ciphertext, iv, macTag, err := keyschedule.SealConfirm(s.suite.Cipher, s.suite.MAC, zrtpKey, macKey, plaintext)
	if err != nil {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorCriticalSWError)
		return err
	}

	cm := domaintypes.ConfirmMessage{H0: s.localChain.H0, MAC: macTag, CipherText: ciphertext}
	copy(cm.IV[:], iv)
	body := wire.EncodeConfirm(cm)
	s.send(msgType, body)
	return nil
}

// openConfirm decrypts and authenticates an inbound Confirm body and
// checks that its revealed H0 chains to the latest peer hash-chain value
// this endpoint holds: H1 from DHPart, else H2 from Commit, else H3 from
// Hello (spec §4.5 invariant 2).
func (s *Session) openConfirm(msg wire.Message) (domaintypes.ConfirmFlags, bool, error) {
	cm, err := wire.DecodeConfirm(msg.Body)
	if err != nil {
		return domaintypes.ConfirmFlags{}, false, err
	}

	zrtpKey, macKey := s.confirmKeys(false)
	plaintext, ok, err := keyschedule.OpenConfirm(s.suite.Cipher, s.suite.MAC, zrtpKey, macKey, cm.CipherText, cm.IV[:], cm.MAC)
	if err != nil || !ok {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorConfirmHMACWrong)
		return domaintypes.ConfirmFlags{}, false, err
	}

	h1 := sha256.Sum256(cm.H0[:])
	h2 := sha256.Sum256(h1[:])
	h3 := sha256.Sum256(h2[:])
	var zero [32]byte
	chained := h3 == s.neg.PeerH3
	switch {
	case s.neg.PeerH1 != zero:
		chained = h1 == s.neg.PeerH1
	case s.neg.PeerH2 != zero:
		chained = h2 == s.neg.PeerH2
	}
	if !chained {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereDH1HMACFailed), domaintypes.ErrorConfirmHMACWrong)
		return domaintypes.ConfirmFlags{}, false, nil
	}
	s.neg.PeerH0 = cm.H0

	if !s.verifyPeerDHPartMAC() {
		return domaintypes.ConfirmFlags{}, false, nil
	}

	flags, _, sig, ok := decodeConfirmInner(plaintext)
	if !ok {
		s.fail(domaintypes.SeveritySevere, int(domaintypes.SevereInternalError), domaintypes.ErrorMalformedPacket)
		return domaintypes.ConfirmFlags{}, false, nil
	}

	if flags.SignatureLengthWords > 0 && len(s.secrets.SASHash) > 0 {
		if !s.callback.CheckSASSignature(s.secrets.SASHash, sig) {
			s.callback.SendInfo(domaintypes.SeverityWarning, int(domaintypes.WarningCryptoOptionsMismatch))
		}
	}
	return flags, true, nil
}

// onConfirm1 is the Initiator's continuation (spec §4.5 WaitConfirm1
// state): validate Confirm1, answer with Confirm2, activate SRTP in both
// directions, then wait for Conf2ACK.
func (s *Session) onConfirm1(msg wire.Message) error {
	if s.state != WaitConfirm1 {
		return nil
	}
	if _, ok, err := s.openConfirm(msg); err != nil || !ok {
		return err
	}

	s.cancelTimer()
	if err := s.sendConfirm(domaintypes.MsgConfirm2); err != nil {
		return err
	}
	s.activateSRTP()

	s.timer = newT2Timer()
	if ms, ok := s.timer.next(); ok {
		s.callback.ActivateTimer(ms)
	}
	s.state = WaitConf2Ack
	return nil
}

// onConfirm2 is the Responder's continuation (spec §4.5 WaitConfirm2
// state): validate Confirm2, activate SRTP, ack, and enter SecureState.
func (s *Session) onConfirm2(msg wire.Message) error {
	if s.state != WaitConfirm2 {
		return nil
	}
	if _, ok, err := s.openConfirm(msg); err != nil || !ok {
		return err
	}

	s.activateSRTP()
	s.send(domaintypes.MsgConf2ACK, wire.EncodeAck())
	s.enterSecureState()
	return nil
}

// onConf2Ack is the Initiator's continuation: the Responder has
// activated SRTP, so this endpoint can too (spec §4.5 SecureState entry).
func (s *Session) onConf2Ack() error {
	if s.state != WaitConf2Ack {
		return nil
	}
	s.callback.SendInfo(domaintypes.SeverityInfo, int(domaintypes.InfoConf2AckSent))
	s.enterSecureState()
	return nil
}

func (s *Session) activateSRTP() {
	var outKey, outSalt, inKey, inSalt []byte
	if s.neg.Role == domaintypes.RoleInitiator {
		outKey, outSalt = s.secrets.SRTPKeyInitiator, s.secrets.SRTPSaltInitiator
		inKey, inSalt = s.secrets.SRTPKeyResponder, s.secrets.SRTPSaltResponder
	} else {
		outKey, outSalt = s.secrets.SRTPKeyResponder, s.secrets.SRTPSaltResponder
		inKey, inSalt = s.secrets.SRTPKeyInitiator, s.secrets.SRTPSaltInitiator
	}
	s.callback.SRTPSecretsReady(domaintypes.SRTPSecrets{
		Direction: domaintypes.DirectionOutbound, Key: outKey, Salt: outSalt,
		Cipher: s.neg.SelectedCipher, AuthTag: s.neg.SelectedAuthTag,
		Role: s.neg.Role, SASValue: s.secrets.SASValue,
	})
	s.callback.SRTPSecretsReady(domaintypes.SRTPSecrets{
		Direction: domaintypes.DirectionInbound, Key: inKey, Salt: inSalt,
		Cipher: s.neg.SelectedCipher, AuthTag: s.neg.SelectedAuthTag,
		Role: s.neg.Role, SASValue: s.secrets.SASValue,
	})
}

// enterSecureState commits the freshly derived rs1, wipes the secrets the
// key schedule produced, and reports InfoSecureStateOn (spec §4.5
// SecureState entry, invariant 3).
func (s *Session) enterSecureState() {
	s.cancelTimer()

	s.clearHMACKey = s.suite.MAC.Sum(
		append(append([]byte{}, s.secrets.HMACKeyInitiator...), s.secrets.HMACKeyResponder...),
		[]byte("GoClear"),
	)

	rec, _ := s.cache.Get(s.peerZID)
	rec.PeerZID = s.peerZID
	rec.SetNewRS1(s.secrets.NewRS1, domaintypes.DefaultRSExpireSeconds)
	rec.SecureSinceUTC = time.Now().Unix()
	rec.LastUsedUTC = rec.SecureSinceUTC
	if rec.CreatedUTC == 0 {
		rec.CreatedUTC = rec.SecureSinceUTC
	}
	_ = s.cache.Put(rec)

	s.callback.SendInfo(domaintypes.SeverityInfo, int(domaintypes.InfoSecureStateOn))
	log.WithField("role", s.neg.Role).Info("zrtp: secure state entered")

	s.zrtpSessKept = append([]byte{}, s.secrets.ZRTPSess...)
	s.secrets.Wipe()
	zcrypto.WipeKeyMaterial(s.neg.DHResult, s.neg.DHPrivateSelf)
	s.neg.DHResult = nil
	s.neg.DHPrivateSelf = nil

	s.state = SecureState
}
