package algo

import (
	"testing"

	"github.com/stretchr/testify/require"

	domaintypes "zrtp/internal/domain/types"
)

func TestSelectPrefersLocalOrder(t *testing.T) {
	local := Default()
	peer := domaintypes.HelloParameters{
		Hashes:   []domaintypes.AlgoTag{domaintypes.HashS256, domaintypes.HashS384},
		Ciphers:  []domaintypes.AlgoTag{domaintypes.CipherAES1, domaintypes.CipherAES3},
		KeyExch:  []domaintypes.AlgoTag{domaintypes.KeyExchangeDH3k, domaintypes.KeyExchangeEC25},
		SASTypes: []domaintypes.AlgoTag{domaintypes.SASBase32},
		AuthTags: []domaintypes.AlgoTag{domaintypes.AuthTagHS32, domaintypes.AuthTagHS80},
	}
	sel := Select(local, peer)
	require.Equal(t, domaintypes.HashS384, sel.Hash)
	require.Equal(t, domaintypes.CipherAES3, sel.Cipher, "S384 forces AES3 upgrade when the peer supports it")
	require.Equal(t, domaintypes.KeyExchangeEC25, sel.KeyExch)
	require.True(t, sel.DHAESMismatch, "the peer offers AES3 but neither DH4k nor EC38")
}

func TestSelectFallsBackToMandatoryOnNoOverlap(t *testing.T) {
	local := Default()
	peer := domaintypes.HelloParameters{
		Hashes:   []domaintypes.AlgoTag{{0, 0, 0, 0}},
		Ciphers:  []domaintypes.AlgoTag{{0, 0, 0, 0}},
		KeyExch:  []domaintypes.AlgoTag{{0, 0, 0, 0}},
		SASTypes: []domaintypes.AlgoTag{{0, 0, 0, 0}},
		AuthTags: []domaintypes.AlgoTag{{0, 0, 0, 0}},
	}
	sel := Select(local, peer)
	require.Equal(t, Mandatory.Hashes[0], sel.Hash)
	require.Equal(t, Mandatory.Ciphers[0], sel.Cipher)
	require.Equal(t, Mandatory.KeyExch[0], sel.KeyExch)
}

func TestSelectFlagsDHAESMismatch(t *testing.T) {
	local := Registry{
		Hashes:   []domaintypes.AlgoTag{domaintypes.HashS256},
		Ciphers:  []domaintypes.AlgoTag{domaintypes.CipherAES3},
		KeyExch:  []domaintypes.AlgoTag{domaintypes.KeyExchangeEC25},
		SASTypes: []domaintypes.AlgoTag{domaintypes.SASBase32},
		AuthTags: []domaintypes.AlgoTag{domaintypes.AuthTagHS32},
	}
	peer := domaintypes.HelloParameters{
		Hashes:   []domaintypes.AlgoTag{domaintypes.HashS256},
		Ciphers:  []domaintypes.AlgoTag{domaintypes.CipherAES3},
		KeyExch:  []domaintypes.AlgoTag{domaintypes.KeyExchangeEC25},
		SASTypes: []domaintypes.AlgoTag{domaintypes.SASBase32},
		AuthTags: []domaintypes.AlgoTag{domaintypes.AuthTagHS32},
	}
	sel := Select(local, peer)
	require.Equal(t, domaintypes.CipherAES3, sel.Cipher)
	require.True(t, sel.DHAESMismatch, "AES3 without a DH4k-class exchange should warn, not fail")
}
