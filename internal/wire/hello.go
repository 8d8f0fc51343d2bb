package wire

import (
	domaintypes "zrtp/internal/domain/types"
)

func writeAlgoList(b *builder, list []domaintypes.AlgoTag) {
	b.u16(uint16(len(list)))
	for _, t := range list {
		b.bytes(t[:])
	}
}

func readAlgoList(r *reader) []domaintypes.AlgoTag {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := make([]domaintypes.AlgoTag, 0, n)
	for i := 0; i < n; i++ {
		v := r.fixed(4)
		if r.err != nil {
			return nil
		}
		var t domaintypes.AlgoTag
		copy(t[:], v)
		out = append(out, t)
	}
	return out
}

// EncodeHello serializes a Hello message body (spec §3): the flat fields,
// then the five algorithm preference lists, then the trailing 8-byte MAC
// slot copied from h.MAC. Nothing in this module computes or verifies that
// MAC; the state machine sends it zero-filled.
func EncodeHello(h domaintypes.HelloParameters) []byte {
	var b builder
	b.bytesN([]byte(h.Version), 4)
	b.bytesN(h.ClientID[:], domaintypes.ClientIDLength)
	b.bytes(h.H3[:])
	b.bytes(h.ZID[:])
	b.bool8(h.MitM)
	b.bool8(h.Passive)
	b.bool8(h.SASSign)
	writeAlgoList(&b, h.Hashes)
	writeAlgoList(&b, h.Ciphers)
	writeAlgoList(&b, h.KeyExch)
	writeAlgoList(&b, h.SASTypes)
	writeAlgoList(&b, h.AuthTags)
	b.bytes(h.MAC[:])
	b.padToWord()
	return b.buf
}

// DecodeHello parses a Hello body. RawImage must be set by the caller from
// the packet bytes actually received, since total_hash and the deferred
// MAC both authenticate the exact wire image, not a re-encoding of it.
func DecodeHello(body []byte) (domaintypes.HelloParameters, error) {
	r := reader{buf: body}
	var h domaintypes.HelloParameters
	h.Version = trimZero(r.fixed(4))
	copy(h.ClientID[:], r.fixed(domaintypes.ClientIDLength))
	copy(h.H3[:], r.fixed(domaintypes.HashImageLength))
	copy(h.ZID[:], r.fixed(domaintypes.ZIDLength))
	h.MitM = r.bool8()
	h.Passive = r.bool8()
	h.SASSign = r.bool8()
	h.Hashes = readAlgoList(&r)
	h.Ciphers = readAlgoList(&r)
	h.KeyExch = readAlgoList(&r)
	h.SASTypes = readAlgoList(&r)
	h.AuthTags = readAlgoList(&r)
	copy(h.MAC[:], r.fixed(8))
	if r.err != nil {
		return domaintypes.HelloParameters{}, r.err
	}
	return h, nil
}

func trimZero(b []byte) string {
	n := len(b)
	for n > 0 && (b[n-1] == 0 || b[n-1] == ' ') {
		n--
	}
	return string(b[:n])
}
