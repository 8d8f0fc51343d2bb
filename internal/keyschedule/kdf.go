package keyschedule

import (
	"encoding/binary"

	"zrtp/internal/domain/interfaces"
)

// KDF implements spec §4.4's HMAC-based key derivation function:
//
//	KDF(KI, label, context, L) = HMAC(KI, 0x00000001 || label || 0x00 || context || L_be32)
//
// truncated to L bits (L is always a multiple of 8 in this package's
// callers, so the truncation is a byte count).
func KDF(mac interfaces.MAC, ki []byte, label string, context []byte, lBits int) []byte {
	var counter [4]byte
	binary.BigEndian.PutUint32(counter[:], 1)

	var lengthField [4]byte
	binary.BigEndian.PutUint32(lengthField[:], uint32(lBits))

	labelField := append([]byte(label), 0x00)

	out := mac.Sum(ki, counter[:], labelField, context, lengthField[:])
	lBytes := lBits / 8
	if lBytes > len(out) {
		lBytes = len(out)
	}
	return out[:lBytes]
}

// s combines a retained secret with a label into the HMAC-of-secret input
// s0 folds in (spec §4.4: "each si is either the HMAC of the corresponding
// retained secret ... with label, or absent"). An absent secret (all
// zero / not yet established) yields a zero-length si, matching the "or
// absent (length 0)" clause literally rather than HMACing a secret that
// was never negotiated.
func s(mac interfaces.MAC, secret []byte, label string, present bool) []byte {
	if !present {
		return nil
	}
	return mac.Sum(secret, []byte(label))
}
