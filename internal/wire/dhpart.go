package wire

import domaintypes "zrtp/internal/domain/types"

// EncodeDHPart serializes the body shared by DHPart1 and DHPart2 (spec
// §4.3): the revealed hash-chain image, the sender's public key material
// (length depends on the negotiated key exchange), and the MAC.
func EncodeDHPart(d domaintypes.DHPartMessage) []byte {
	var b builder
	b.bytes(d.H1[:])
	b.lenPrefixed(d.PublicKey)
	b.bytes(d.MAC[:])
	b.padToWord()
	return b.buf
}

// DHPartMACCoveredBody returns the exact byte range of a DHPart body
// (H1 plus the length-prefixed public key) that the sender's MAC covers,
// with the MAC field itself and any trailing word-alignment padding
// excluded (spec §4.3). offset locates where the DHPart body starts
// within raw: 0 for a bare EncodeDHPart image, HeaderBytes for a raw
// packet image. pubKeyLen must be the length of the same public key the
// caller decoded or encoded, since it is not fixed across key-exchange
// algorithms.
func DHPartMACCoveredBody(raw []byte, offset, pubKeyLen int) []byte {
	end := offset + domaintypes.HashImageLength + 2 + pubKeyLen
	return raw[offset:end]
}

func DecodeDHPart(body []byte) (domaintypes.DHPartMessage, error) {
	r := reader{buf: body}
	var d domaintypes.DHPartMessage
	copy(d.H1[:], r.fixed(domaintypes.HashImageLength))
	d.PublicKey = r.lenPrefixed()
	copy(d.MAC[:], r.fixed(8))
	if r.err != nil {
		return domaintypes.DHPartMessage{}, r.err
	}
	return d, nil
}
