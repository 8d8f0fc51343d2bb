package wire

import domaintypes "zrtp/internal/domain/types"

func writeConfirmFlags(b *builder, f domaintypes.ConfirmFlags) {
	b.u16(f.SignatureLengthWords)
	b.bool8(f.SASVerified)
	b.bool8(f.AllowClearFallback)
	b.bool8(f.Disclosure)
	b.bool8(f.PBXEnrollment)
}

func readConfirmFlags(r *reader) domaintypes.ConfirmFlags {
	var f domaintypes.ConfirmFlags
	f.SignatureLengthWords = r.u16()
	f.SASVerified = r.bool8()
	f.AllowClearFallback = r.bool8()
	f.Disclosure = r.bool8()
	f.PBXEnrollment = r.bool8()
	return f
}

// EncodeConfirm serializes the plaintext layout of a Confirm1/Confirm2
// body (spec §4.4). Encryption and the MAC over the ciphertext are the key
// schedule's job (interfaces.StreamCipher / interfaces.MAC); this codec
// only lays the fields out in the order the peer expects them decrypted.
func EncodeConfirm(c domaintypes.ConfirmMessage) []byte {
	var b builder
	b.bytes(c.MAC[:])
	b.bytes(c.IV[:])
	b.bytes(c.H0[:])
	writeConfirmFlags(&b, c.Flags)
	b.i32(c.CacheExpireSec)
	b.lenPrefixed(c.Signature)
	b.lenPrefixed(c.CipherText)
	b.padToWord()
	return b.buf
}

func DecodeConfirm(body []byte) (domaintypes.ConfirmMessage, error) {
	r := reader{buf: body}
	var c domaintypes.ConfirmMessage
	copy(c.MAC[:], r.fixed(8))
	copy(c.IV[:], r.fixed(16))
	copy(c.H0[:], r.fixed(domaintypes.HashImageLength))
	c.Flags = readConfirmFlags(&r)
	c.CacheExpireSec = r.i32()
	c.Signature = r.lenPrefixed()
	c.CipherText = r.lenPrefixed()
	if r.err != nil {
		return domaintypes.ConfirmMessage{}, r.err
	}
	return c, nil
}

// EncodeSASrelay serializes an SASrelay body (spec §4.6): a PBX-relayed
// SAS hash, encrypted and authenticated the same way as Confirm.
func EncodeSASrelay(s domaintypes.SASrelayMessage) []byte {
	var b builder
	b.bytes(s.MAC[:])
	b.bytes(s.IV[:])
	writeConfirmFlags(&b, s.Flags)
	b.bytes(s.RenderSAS[:])
	b.lenPrefixed(s.CipherText)
	b.padToWord()
	return b.buf
}

func DecodeSASrelay(body []byte) (domaintypes.SASrelayMessage, error) {
	r := reader{buf: body}
	var s domaintypes.SASrelayMessage
	copy(s.MAC[:], r.fixed(8))
	copy(s.IV[:], r.fixed(16))
	s.Flags = readConfirmFlags(&r)
	copy(s.RenderSAS[:], r.fixed(4))
	s.CipherText = r.lenPrefixed()
	if r.err != nil {
		return domaintypes.SASrelayMessage{}, r.err
	}
	return s, nil
}
