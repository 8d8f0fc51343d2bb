package wire

import (
	"bytes"

	domaintypes "zrtp/internal/domain/types"
)

// Message bundles a decoded header with its raw pre-CRC image, which the
// deferred-HMAC machinery needs verbatim: the MAC embedded in most ZRTP
// messages authenticates the exact bytes sent, not a re-encoding of the
// parsed fields (spec §4.1, §4.3).
type Message struct {
	Header   Header
	RawBody  []byte // header+body, excluding CRC — what the MAC covers
	Body     []byte // message body only, excluding header
}

// Read validates and splits a raw packet without interpreting its body,
// so callers can dispatch on Header.Type before choosing a per-message
// decoder.
func Read(raw []byte) (Message, error) {
	h, body, err := Decode(raw)
	if err != nil {
		return Message{}, err
	}
	return Message{
		Header:  h,
		RawBody: raw[:HeaderBytes+len(body)],
		Body:    body,
	}, nil
}

// VerifyDeferredMAC checks the truncated MAC trailing a message against a
// MAC computed over that message's raw image with the hash-chain key
// revealed by the next message in sequence (spec §4.1's delayed
// authentication). macOf is a closure returning the truncated MAC, so this
// package doesn't need to import a concrete MAC implementation.
func VerifyDeferredMAC(rawImageWithoutMAC []byte, wantMAC [8]byte, macOf func([]byte) [8]byte) bool {
	got := macOf(rawImageWithoutMAC)
	return bytes.Equal(got[:], wantMAC[:])
}

// EncodePacket is the convenience wrapper most state-machine code should
// call: encode a message body for the given type and wrap it in a full
// packet with header and CRC.
func EncodePacket(seq uint16, ssrc uint32, msgType domaintypes.MessageType, body []byte) []byte {
	return Encode(Header{Sequence: seq, SSRC: ssrc, Type: msgType}, body)
}
