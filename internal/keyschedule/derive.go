package keyschedule

import (
	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

// Derive runs the full spec §4.4 key schedule from a computed s0 and
// KDF_Context, producing every key the state machine and the Callback
// Surface need. cipherKeyLen comes from the negotiated cipher (16 bytes
// for AES1, 32 for AES3) and sizes both the ZRTP and SRTP keys;
// srtpSaltLen is fixed at 14 by SRTP.
func Derive(mac interfaces.MAC, h interfaces.Hash, s0 []byte, ctx []byte, cipherKeyLen, srtpSaltLen int) domaintypes.SessionSecrets {
	var out domaintypes.SessionSecrets
	out.S0 = s0

	keyBits := cipherKeyLen * 8
	saltBits := srtpSaltLen * 8

	out.HMACKeyInitiator = KDF(mac, s0, "Initiator HMAC key", ctx, h.Size()*8)
	out.HMACKeyResponder = KDF(mac, s0, "Responder HMAC key", ctx, h.Size()*8)

	out.ZRTPKeyInitiator = KDF(mac, s0, "Initiator ZRTP key", ctx, keyBits)
	out.ZRTPKeyResponder = KDF(mac, s0, "Responder ZRTP key", ctx, keyBits)

	out.SRTPKeyInitiator = KDF(mac, s0, "Initiator SRTP master key", ctx, keyBits)
	out.SRTPSaltInitiator = KDF(mac, s0, "Initiator SRTP master salt", ctx, saltBits)
	out.SRTPKeyResponder = KDF(mac, s0, "Responder SRTP master key", ctx, keyBits)
	out.SRTPSaltResponder = KDF(mac, s0, "Responder SRTP master salt", ctx, saltBits)

	out.ZRTPSess = KDF(mac, s0, "ZRTP Session Key", ctx, h.Size()*8)

	out.SASHash = KDF(mac, s0, "SAS", ctx, h.Size()*8)

	newRS1 := KDF(mac, s0, "retained secret", ctx, domaintypes.RSLength*8)
	copy(out.NewRS1[:], newRS1)

	return out
}
