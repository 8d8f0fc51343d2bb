package algo

import domaintypes "zrtp/internal/domain/types"

// Registry holds the ordered local preference list per algorithm family
// (spec §2 component 2, §4.2).
type Registry struct {
	Hashes    []domaintypes.AlgoTag
	Ciphers   []domaintypes.AlgoTag
	KeyExch   []domaintypes.AlgoTag
	SASTypes  []domaintypes.AlgoTag
	AuthTags  []domaintypes.AlgoTag
}

// Default returns the local preference lists in the order the reference
// implementation advertises: the strong suite first, with the
// mandatory-to-implement algorithm always present as the last resort per
// family (spec §4.2).
func Default() Registry {
	return Registry{
		Hashes:   []domaintypes.AlgoTag{domaintypes.HashS384, domaintypes.HashS256},
		Ciphers:  []domaintypes.AlgoTag{domaintypes.CipherAES3, domaintypes.CipherAES1},
		KeyExch:  []domaintypes.AlgoTag{domaintypes.KeyExchangeEC25, domaintypes.KeyExchangeDH3k, domaintypes.KeyExchangeMult},
		SASTypes: []domaintypes.AlgoTag{domaintypes.SASBase32},
		AuthTags: []domaintypes.AlgoTag{domaintypes.AuthTagHS80, domaintypes.AuthTagHS32},
	}
}

// Mandatory is the fallback selected when local and peer preference lists
// share no overlap (spec §4.2).
var Mandatory = Registry{
	Hashes:   []domaintypes.AlgoTag{domaintypes.HashS256},
	Ciphers:  []domaintypes.AlgoTag{domaintypes.CipherAES1},
	KeyExch:  []domaintypes.AlgoTag{domaintypes.KeyExchangeDH3k, domaintypes.KeyExchangeMult},
	SASTypes: []domaintypes.AlgoTag{domaintypes.SASBase32},
	AuthTags: []domaintypes.AlgoTag{domaintypes.AuthTagHS32, domaintypes.AuthTagHS80},
}

// Selection is the outcome of running Select for all five families.
type Selection struct {
	Hash    domaintypes.AlgoTag
	Cipher  domaintypes.AlgoTag
	KeyExch domaintypes.AlgoTag
	SAS     domaintypes.AlgoTag
	AuthTag domaintypes.AlgoTag

	// DHAESMismatch is set when the peer offered AES3 without a DH4k-class
	// key exchange (spec §4.2): a Warning, not a failure.
	DHAESMismatch bool
}

// Select runs the Initiator-side algorithm negotiation (spec §4.2): for
// each family, intersect the local preference list with what the peer
// offered in Hello, picking the first locally-preferred tag the peer also
// supports; fall back to the mandatory tag on no overlap. The selected
// hash can force a cipher/auth-tag upgrade.
func Select(local Registry, peer domaintypes.HelloParameters) Selection {
	var s Selection
	s.Hash = pick(local.Hashes, peer.Hashes, Mandatory.Hashes[0])
	s.Cipher = pick(local.Ciphers, peer.Ciphers, Mandatory.Ciphers[0])
	s.KeyExch = pick(local.KeyExch, peer.KeyExch, Mandatory.KeyExch[0])
	s.SAS = pick(local.SASTypes, peer.SASTypes, Mandatory.SASTypes[0])
	s.AuthTag = pick(local.AuthTags, peer.AuthTags, Mandatory.AuthTags[0])

	// S384 forces the AES3/HS80-class companions (spec §4.2).
	if s.Hash == domaintypes.HashS384 {
		if s.Cipher == domaintypes.CipherAES1 && contains(peer.Ciphers, domaintypes.CipherAES3) {
			s.Cipher = domaintypes.CipherAES3
		}
		if s.AuthTag == domaintypes.AuthTagHS32 && contains(peer.AuthTags, domaintypes.AuthTagHS80) {
			s.AuthTag = domaintypes.AuthTagHS80
		}
	}

	if s.Cipher == domaintypes.CipherAES3 && !hasDH4kClass(peer.KeyExch) {
		s.DHAESMismatch = true
	}
	return s
}

func hasDH4kClass(peerExch []domaintypes.AlgoTag) bool {
	return contains(peerExch, domaintypes.KeyExchangeDH4k) || contains(peerExch, domaintypes.KeyExchangeEC38)
}

func pick(local, peer []domaintypes.AlgoTag, mandatory domaintypes.AlgoTag) domaintypes.AlgoTag {
	for _, want := range local {
		if contains(peer, want) {
			return want
		}
	}
	return mandatory
}

func contains(list []domaintypes.AlgoTag, tag domaintypes.AlgoTag) bool {
	for _, t := range list {
		if t == tag {
			return true
		}
	}
	return false
}
