package keyschedule

import (
	"testing"

	"github.com/stretchr/testify/require"

	zcrypto "zrtp/internal/crypto"
	domaintypes "zrtp/internal/domain/types"
)

func TestKDFIsDeterministicAndKeyed(t *testing.T) {
	mac := zcrypto.HMACSHA256{}
	ctx := []byte("some-context")

	a := KDF(mac, []byte("key-a"), "label", ctx, 256)
	b := KDF(mac, []byte("key-a"), "label", ctx, 256)
	c := KDF(mac, []byte("key-b"), "label", ctx, 256)

	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
	require.Len(t, a, 32)
}

func TestS0ChangesWithDHResult(t *testing.T) {
	h := zcrypto.SHA256{}
	mac := zcrypto.HMACSHA256{}
	ctx := []byte("ctx")

	s0a := S0(h, mac, []byte("dh-result-a"), ctx, RetainedSecrets{})
	s0b := S0(h, mac, []byte("dh-result-b"), ctx, RetainedSecrets{})
	require.NotEqual(t, s0a, s0b)
}

func TestS0ChangesWithRetainedSecretPresence(t *testing.T) {
	h := zcrypto.SHA256{}
	mac := zcrypto.HMACSHA256{}
	ctx := []byte("ctx")
	dh := []byte("dh-result")

	absent := S0(h, mac, dh, ctx, RetainedSecrets{})
	present := S0(h, mac, dh, ctx, RetainedSecrets{RS1: []byte("rs1-value"), RS1Present: true})
	require.NotEqual(t, absent, present)
}

func TestDeriveProducesDistinctKeysPerRole(t *testing.T) {
	h := zcrypto.SHA256{}
	mac := zcrypto.HMACSHA256{}
	s0 := h.Sum([]byte("s0-fixture"))
	ctx := []byte("ctx")

	secrets := Derive(mac, h, s0, ctx, 16, 14)
	require.NotEqual(t, secrets.SRTPKeyInitiator, secrets.SRTPKeyResponder)
	require.NotEqual(t, secrets.HMACKeyInitiator, secrets.HMACKeyResponder)
	require.NotEqual(t, secrets.ZRTPKeyInitiator, secrets.ZRTPKeyResponder)
	require.Len(t, secrets.SRTPKeyInitiator, 16)
	require.Len(t, secrets.SRTPSaltInitiator, 14)
	require.NotZero(t, secrets.NewRS1)
}

func TestRenderB32IsFourZbase32Chars(t *testing.T) {
	sasHash := make([]byte, 32)
	for i := range sasHash {
		sasHash[i] = byte(i * 7)
	}
	rendered := RenderB32(sasHash)
	require.Len(t, rendered, 4)
	for _, c := range rendered {
		require.Contains(t, zbase32Alphabet, string(c))
	}
}

func TestRenderB256IsWordPair(t *testing.T) {
	sasHash := make([]byte, 32)
	rendered := RenderB256(sasHash)
	require.Contains(t, rendered, "-")
}

func TestSealOpenConfirmRoundTrip(t *testing.T) {
	cipher := zcrypto.AESCM{KeyBytes: 16}
	mac := zcrypto.HMACSHA256{}
	zrtpKey := make([]byte, 16)
	macKey := []byte("mac-key")
	plaintext := []byte("confirm body plaintext padded to a block")

	ct, iv, tag, err := SealConfirm(cipher, mac, zrtpKey, macKey, plaintext)
	require.NoError(t, err)

	pt, ok, err := OpenConfirm(cipher, mac, zrtpKey, macKey, ct, iv, tag)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, plaintext, pt)
}

func TestOpenConfirmRejectsTamperedCiphertext(t *testing.T) {
	cipher := zcrypto.AESCM{KeyBytes: 16}
	mac := zcrypto.HMACSHA256{}
	zrtpKey := make([]byte, 16)
	macKey := []byte("mac-key")
	plaintext := []byte("confirm body plaintext padded to a block")

	ct, iv, tag, err := SealConfirm(cipher, mac, zrtpKey, macKey, plaintext)
	require.NoError(t, err)
	ct[0] ^= 0xff

	_, ok, err := OpenConfirm(cipher, mac, zrtpKey, macKey, ct, iv, tag)
	require.NoError(t, err)
	require.False(t, ok, "ConfirmHMACWrong should be raised, not a decrypted-but-garbage body")
}

func TestTotalHashAndContext(t *testing.T) {
	h := zcrypto.SHA256{}
	n := domaintypes.NegotiationState{
		HelloResponderImage: []byte("hello"),
		CommitImage:         []byte("commit"),
		DHPart1Image:        []byte("dh1"),
		DHPart2Image:        []byte("dh2"),
	}
	th := TotalHash(h, n)
	require.Len(t, th, 32)

	zidi := domaintypes.ZID{1}
	zidr := domaintypes.ZID{2}
	ctx := Context(zidi, zidr, th)
	require.Len(t, ctx, domaintypes.ZIDLength*2+32)
}
