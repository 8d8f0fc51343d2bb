package algo

import (
	zcrypto "zrtp/internal/crypto"
	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

// Suite resolves a Selection to the concrete primitive adapters
// internal/crypto provides, so the state machine never switches on an
// algorithm tag itself (spec §1: primitives are external collaborators,
// selected but not implemented by the core).
type Suite struct {
	Hash          interfaces.Hash
	MAC           interfaces.MAC
	Cipher        interfaces.StreamCipher
	CipherKeyLen  int
	KeyExch       interfaces.KeyExchange
	IsDHKeyExch   bool
}

// Resolve builds the Suite for a Selection.
func Resolve(sel Selection) Suite {
	var s Suite
	if sel.Hash == domaintypes.HashS384 {
		s.Hash = zcrypto.SHA384{}
		s.MAC = zcrypto.HMACSHA384{}
	} else {
		s.Hash = zcrypto.SHA256{}
		s.MAC = zcrypto.HMACSHA256{}
	}

	if sel.Cipher == domaintypes.CipherAES3 {
		s.Cipher = zcrypto.AESCM{KeyBytes: 32}
		s.CipherKeyLen = 32
	} else {
		s.Cipher = zcrypto.AESCM{KeyBytes: 16}
		s.CipherKeyLen = 16
	}

	switch sel.KeyExch {
	case domaintypes.KeyExchangeEC25:
		s.KeyExch = zcrypto.X25519KeyExchange{}
		s.IsDHKeyExch = true
	case domaintypes.KeyExchangeDH3k, domaintypes.KeyExchangeDH2k:
		s.KeyExch = zcrypto.NewDH3k()
		s.IsDHKeyExch = true
	case domaintypes.KeyExchangeDH4k:
		s.KeyExch = zcrypto.NewDH3k() // stand-in, see NewDH3k's doc comment
		s.IsDHKeyExch = true
	default: // Mult, Prsh: no DH exchange
		s.IsDHKeyExch = false
	}
	return s
}
