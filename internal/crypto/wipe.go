package crypto

import "crypto/subtle"

// WipeKeyMaterial overwrites each buffer with zeros via
// crypto/subtle.ConstantTimeCopy rather than a plain assignment loop, so
// the write cannot be optimized away as dead code ahead of the buffer
// going out of scope. Session secrets and DH exchange output are wiped
// this way the moment SecureState no longer needs them (spec §4.5
// invariant 3).
func WipeKeyMaterial(buffers ...[]byte) {
	for _, b := range buffers {
		if len(b) == 0 {
			continue
		}
		zero := make([]byte, len(b))
		subtle.ConstantTimeCopy(1, b, zero)
	}
}
