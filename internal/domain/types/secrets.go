package types

import zcrypto "zrtp/internal/crypto"

// SessionSecrets is the output of the key schedule (spec §3, §4.4): the
// per-direction SRTP keys/salts, the SAS material, and the HMAC keys used to
// authenticate Confirm1/Confirm2.
type SessionSecrets struct {
	S0        []byte
	TotalHash []byte
	ZRTPSess  []byte // handed down to MultiStream legs of the same association

	HMACKeyInitiator []byte
	HMACKeyResponder []byte

	SRTPKeyInitiator  []byte
	SRTPSaltInitiator []byte
	SRTPKeyResponder  []byte
	SRTPSaltResponder []byte

	ZRTPKeyInitiator []byte // encrypts Confirm1
	ZRTPKeyResponder []byte // encrypts Confirm2

	SASHash    []byte
	SASValue   string
	NewRS1     [RSLength]byte
}

// Wipe overwrites every secret-bearing slice with zeros. Call this the
// moment the key schedule's output has been consumed (spec §5, §9).
func (s *SessionSecrets) Wipe() {
	zcrypto.WipeKeyMaterial(
		s.S0, s.ZRTPSess,
		s.HMACKeyInitiator, s.HMACKeyResponder,
		s.SRTPKeyInitiator, s.SRTPSaltInitiator,
		s.SRTPKeyResponder, s.SRTPSaltResponder,
		s.ZRTPKeyInitiator, s.ZRTPKeyResponder,
		s.NewRS1[:],
	)
}

// SRTPSecrets is what the Callback Surface's srtp_secrets_ready hands to the
// host per direction (spec §4.6).
type SRTPSecrets struct {
	Direction Direction
	Key       []byte
	Salt      []byte
	Cipher    AlgoTag
	AuthTag   AlgoTag
	Role      Role
	SASValue  string
	Verified  bool
}
