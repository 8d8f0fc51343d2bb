package wire

import domaintypes "zrtp/internal/domain/types"

// EncodeError serializes an Error body: a single 4-byte subcode (spec
// §4.5, §7).
func EncodeError(e domaintypes.ErrorMessage) []byte {
	var b builder
	b.u32(uint32(e.Code))
	b.padToWord()
	return b.buf
}

func DecodeError(body []byte) (domaintypes.ErrorMessage, error) {
	r := reader{buf: body}
	code := r.u32()
	if r.err != nil {
		return domaintypes.ErrorMessage{}, r.err
	}
	return domaintypes.ErrorMessage{Code: domaintypes.ErrorSubcode(code)}, nil
}

// EncodeGoClear serializes a GoClear body: the HMAC authenticating the
// clear-mode transition (spec §4.5).
func EncodeGoClear(g domaintypes.GoClearMessage) []byte {
	var b builder
	b.bytes(g.ClearHMAC[:])
	b.padToWord()
	return b.buf
}

func DecodeGoClear(body []byte) (domaintypes.GoClearMessage, error) {
	r := reader{buf: body}
	var g domaintypes.GoClearMessage
	copy(g.ClearHMAC[:], r.fixed(8))
	if r.err != nil {
		return domaintypes.GoClearMessage{}, r.err
	}
	return g, nil
}

// ErrorAck, HelloACK, Conf2ACK, ClearACK, RelayACK and PingACK all carry an
// empty body (spec §4.5); EncodeAck/DecodeAck cover all of them.
func EncodeAck() []byte { return nil }

func DecodeAck(body []byte) error {
	if len(body) != 0 {
		return newErr(ErrTruncatedBody, "expected empty ack body")
	}
	return nil
}
