package keyschedule

import (
	"encoding/binary"

	"zrtp/internal/domain/interfaces"
)

// RetainedSecrets bundles the three inputs s0 folds in beyond the DH
// result (spec §4.4): rs1 from the ZID cache, an auxiliary secret shared
// out of band (rs2/auxsecret), and a PBX enrollment secret. Each is
// optional; a false Present flag means "absent", not "empty".
type RetainedSecrets struct {
	RS1        []byte
	RS1Present bool
	Aux        []byte
	AuxPresent bool
	PBX        []byte
	PBXPresent bool
}

func lenPrefixed(b []byte) []byte {
	var l [4]byte
	binary.BigEndian.PutUint32(l[:], uint32(len(b)))
	return append(l[:], b...)
}

// S0 computes:
//
//	s0 = H(counter=1 || DHResult || "ZRTP-HMAC-KDF" || ZIDi || ZIDr ||
//	        total_hash || len(s1)||s1 || len(s2)||s2 || len(s3)||s3)
//
// per spec §4.4. dhResult is empty for Multi/PreShared modes, where s0 is
// derived solely from KDF over ZRTPSess and a fresh nonce instead (see
// MultiStreamS0).
func S0(h interfaces.Hash, mac interfaces.MAC, dhResult []byte, ctx []byte, rs RetainedSecrets) []byte {
	var counter [4]byte
	binary.BigEndian.PutUint32(counter[:], 1)

	s1 := s(mac, rs.RS1, "retained secret 1", rs.RS1Present)
	s2 := s(mac, rs.Aux, "auxiliary secret", rs.AuxPresent)
	s3 := s(mac, rs.PBX, "pbx secret", rs.PBXPresent)

	return h.Sum(
		counter[:],
		dhResult,
		[]byte("ZRTP-HMAC-KDF"),
		ctx,
		lenPrefixed(s1),
		lenPrefixed(s2),
		lenPrefixed(s3),
	)
}

// MultiStreamS0 derives s0 for a MultiStream media leg (spec §4.4's
// MultiStream note): no DH exchange, s0 comes solely from a KDF run over
// the master stream's ZRTPSess key and this leg's fresh nonce.
func MultiStreamS0(mac interfaces.MAC, zrtpSess []byte, nonce []byte, ctx []byte, lBits int) []byte {
	return KDF(mac, zrtpSess, "MultiStream Session Key", append(append([]byte{}, nonce...), ctx...), lBits)
}

// PreSharedS0 derives s0 for PreShared mode (spec §1, RFC 6189 §4.4's
// PreShared fast path): no DH exchange, keyed off a previously-established
// rs1 instead of a master stream's ZRTPSess.
func PreSharedS0(mac interfaces.MAC, rs1 []byte, nonce []byte, ctx []byte, lBits int) []byte {
	prshSecret := mac.Sum(rs1, []byte("Prsh"))
	return KDF(mac, prshSecret, "PreShared Session Key", append(append([]byte{}, nonce...), ctx...), lBits)
}
