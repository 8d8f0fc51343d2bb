package wire

import domaintypes "zrtp/internal/domain/types"

// EncodeCommit serializes a Commit body (spec §4.2). The HVI field is used
// for DH-mode commits, Nonce for Mult/Prsh fast-path commits; only the one
// matching KeyExch is written, and the receiver knows which to expect from
// KeyExch.
func EncodeCommit(c domaintypes.CommitMessage) []byte {
	var b builder
	b.bytes(c.H2[:])
	b.bytes(c.ZID[:])
	b.bytes(c.Hash[:])
	b.bytes(c.Cipher[:])
	b.bytes(c.AuthTag[:])
	b.bytes(c.KeyExch[:])
	b.bytes(c.SAS[:])
	if c.IsDHMode() {
		b.bytes(c.HVI[:])
	} else {
		b.bytes(c.Nonce[:])
	}
	b.bytes(c.MAC[:])
	b.padToWord()
	return b.buf
}

// CommitMACCoveredBody returns the exact byte range of a Commit body that
// the sender's MAC covers, excluding the MAC field and any trailing
// word-alignment padding. offset locates where the Commit body starts
// within raw: 0 for a bare EncodeCommit image, HeaderBytes for a raw
// packet image. isDHMode selects the HVI-sized or Nonce-sized variable
// field, matching CommitMessage.IsDHMode.
func CommitMACCoveredBody(raw []byte, offset int, isDHMode bool) []byte {
	fixed := domaintypes.HashImageLength + domaintypes.ZIDLength + 4*5
	variable := 16
	if isDHMode {
		variable = domaintypes.HashImageLength
	}
	end := offset + fixed + variable
	return raw[offset:end]
}

func DecodeCommit(body []byte) (domaintypes.CommitMessage, error) {
	r := reader{buf: body}
	var c domaintypes.CommitMessage
	copy(c.H2[:], r.fixed(domaintypes.HashImageLength))
	copy(c.ZID[:], r.fixed(domaintypes.ZIDLength))
	copy(c.Hash[:], r.fixed(4))
	copy(c.Cipher[:], r.fixed(4))
	copy(c.AuthTag[:], r.fixed(4))
	copy(c.KeyExch[:], r.fixed(4))
	copy(c.SAS[:], r.fixed(4))
	if c.IsDHMode() {
		copy(c.HVI[:], r.fixed(domaintypes.HashImageLength))
	} else {
		copy(c.Nonce[:], r.fixed(16))
	}
	copy(c.MAC[:], r.fixed(8))
	if r.err != nil {
		return domaintypes.CommitMessage{}, r.err
	}
	return c, nil
}
