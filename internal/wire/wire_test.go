package wire

import (
	"testing"

	"github.com/stretchr/testify/require"

	domaintypes "zrtp/internal/domain/types"
)

func sampleHello() domaintypes.HelloParameters {
	var h domaintypes.HelloParameters
	h.Version = "1.10"
	copy(h.ClientID[:], "unit-test-client")
	h.H3 = [32]byte{0xaa, 0xbb}
	h.ZID = domaintypes.ZID{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}
	h.MitM = false
	h.Passive = false
	h.SASSign = true
	h.Hashes = []domaintypes.AlgoTag{domaintypes.HashS256, domaintypes.HashS384}
	h.Ciphers = []domaintypes.AlgoTag{domaintypes.CipherAES1}
	h.KeyExch = []domaintypes.AlgoTag{domaintypes.KeyExchangeDH3k}
	h.SASTypes = []domaintypes.AlgoTag{domaintypes.SASBase32}
	h.AuthTags = []domaintypes.AlgoTag{domaintypes.AuthTagHS32}
	h.MAC = [8]byte{1, 2, 3, 4, 5, 6, 7, 8}
	return h
}

func TestPacketRoundTrip(t *testing.T) {
	hello := sampleHello()
	body := EncodeHello(hello)
	raw := EncodePacket(1, 0xdeadbeef, domaintypes.MsgHello, body)

	require.Zero(t, len(raw)%WordSize, "packet length must be a multiple of 4")

	msg, err := Read(raw)
	require.NoError(t, err)
	require.Equal(t, domaintypes.MsgHello, msg.Header.Type)
	require.Equal(t, uint32(0xdeadbeef), msg.Header.SSRC)

	got, err := DecodeHello(msg.Body)
	require.NoError(t, err)
	require.Equal(t, hello.Version, got.Version)
	require.Equal(t, hello.ClientIDString(), got.ClientIDString())
	require.Equal(t, hello.H3, got.H3)
	require.Equal(t, hello.ZID, got.ZID)
	require.Equal(t, hello.Hashes, got.Hashes)
	require.Equal(t, hello.Ciphers, got.Ciphers)
	require.Equal(t, hello.MAC, got.MAC)
}

func TestDecodeRejectsBadMagicCookie(t *testing.T) {
	raw := EncodePacket(1, 1, domaintypes.MsgHelloACK, EncodeAck())
	raw[4] ^= 0xff // corrupt the magic cookie word
	_, err := Read(raw)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrBadMagic, ce.Kind)
}

func TestDecodeRejectsUnalignedLength(t *testing.T) {
	raw := EncodePacket(1, 1, domaintypes.MsgHelloACK, EncodeAck())
	raw = append(raw, 0x00) // break word alignment
	_, err := Read(raw)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrUnaligned, ce.Kind)
}

func TestDecodeSilentlyRejectsCorruptedCRC(t *testing.T) {
	raw := EncodePacket(1, 1, domaintypes.MsgHelloACK, EncodeAck())
	raw[len(raw)-1] ^= 0xff // flip a CRC byte, body untouched
	_, err := Read(raw)
	require.Error(t, err)
	var ce *CodecError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, ErrCrcMismatch, ce.Kind)
}

func TestCommitRoundTripDHMode(t *testing.T) {
	c := domaintypes.CommitMessage{
		ZID:     domaintypes.ZID{9, 9, 9},
		Hash:    domaintypes.HashS256,
		Cipher:  domaintypes.CipherAES1,
		AuthTag: domaintypes.AuthTagHS32,
		KeyExch: domaintypes.KeyExchangeDH3k,
		SAS:     domaintypes.SASBase32,
		MAC:     [8]byte{7, 7, 7, 7, 7, 7, 7, 7},
	}
	c.HVI[0] = 0x42
	body := EncodeCommit(c)
	raw := EncodePacket(2, 1, domaintypes.MsgCommit, body)
	msg, err := Read(raw)
	require.NoError(t, err)
	got, err := DecodeCommit(msg.Body)
	require.NoError(t, err)
	require.True(t, got.IsDHMode())
	require.Equal(t, c.HVI, got.HVI)
	require.Equal(t, c.KeyExch, got.KeyExch)
	require.Equal(t, c.MAC, got.MAC)
}

func TestCommitRoundTripMultMode(t *testing.T) {
	c := domaintypes.CommitMessage{
		ZID:     domaintypes.ZID{1},
		Hash:    domaintypes.HashS256,
		Cipher:  domaintypes.CipherAES1,
		AuthTag: domaintypes.AuthTagHS32,
		KeyExch: domaintypes.KeyExchangeMult,
		SAS:     domaintypes.SASBase32,
	}
	copy(c.Nonce[:], "0123456789abcdef")
	body := EncodeCommit(c)
	got, err := DecodeCommit(body)
	require.NoError(t, err)
	require.False(t, got.IsDHMode())
	require.Equal(t, c.Nonce, got.Nonce)
}

func TestDHPartRoundTrip(t *testing.T) {
	d := domaintypes.DHPartMessage{
		PublicKey: []byte{1, 2, 3, 4, 5, 6, 7},
		MAC:       [8]byte{1, 1, 1, 1, 1, 1, 1, 1},
	}
	body := EncodeDHPart(d)
	got, err := DecodeDHPart(body)
	require.NoError(t, err)
	require.Equal(t, d.PublicKey, got.PublicKey)
	require.Equal(t, d.MAC, got.MAC)
}

func TestConfirmRoundTrip(t *testing.T) {
	c := domaintypes.ConfirmMessage{
		Flags: domaintypes.ConfirmFlags{
			SASVerified:        true,
			AllowClearFallback: false,
			Disclosure:         true,
		},
		CacheExpireSec: 604800,
		CipherText:     []byte{0xde, 0xad, 0xbe, 0xef},
	}
	body := EncodeConfirm(c)
	got, err := DecodeConfirm(body)
	require.NoError(t, err)
	require.Equal(t, c.Flags, got.Flags)
	require.Equal(t, c.CacheExpireSec, got.CacheExpireSec)
	require.Equal(t, c.CipherText, got.CipherText)
}

func TestErrorRoundTrip(t *testing.T) {
	body := EncodeError(domaintypes.ErrorMessage{Code: domaintypes.ErrorNoSharedSecret})
	got, err := DecodeError(body)
	require.NoError(t, err)
	require.Equal(t, domaintypes.ErrorNoSharedSecret, got.Code)
}

func TestVerifyDeferredMAC(t *testing.T) {
	raw := []byte("pretend this is a message image")
	key := []byte("chain-key")
	mac := func(data []byte) [8]byte {
		var out [8]byte
		for i, b := range data {
			out[i%8] ^= b
		}
		for i, b := range key {
			out[i%8] ^= b
		}
		return out
	}
	want := mac(raw)
	require.True(t, VerifyDeferredMAC(raw, want, mac))
	want[0] ^= 0xff
	require.False(t, VerifyDeferredMAC(raw, want, mac))
}
