package wire

import (
	"encoding/binary"

	domaintypes "zrtp/internal/domain/types"
)

// Preamble is the fixed 2-byte marker opening every ZRTP packet (spec
// §4.1).
const Preamble uint16 = 0x505a

// MagicCookie is the 4-byte "ZRTP" magic cookie (spec §4.1).
const MagicCookie uint32 = 0x5a525450

// WordSize is the ZRTP wire alignment unit.
const WordSize = 4

// headerWords is the fixed header length in 4-byte words: preamble+seq,
// magic cookie, SSRC, length+reserved, and the two words of the ASCII
// message-type block (spec §4.1). This codec inserts an explicit 2-byte
// reserved field after Length so every header field lands on a word
// boundary without guessing at an unverified RFC byte layout.
const headerWords = 6
const HeaderBytes = headerWords * WordSize // 24
const CRCBytes = 4

// Header is the common fixed header preceding every ZRTP message body.
type Header struct {
	Sequence uint16
	SSRC     uint32
	Type     domaintypes.MessageType
}

// putHeader writes the fixed header plus the word-count length field for a
// body of bodyLen bytes (not including CRC).
func putHeader(buf []byte, h Header, bodyLen int) {
	binary.BigEndian.PutUint16(buf[0:2], Preamble)
	binary.BigEndian.PutUint16(buf[2:4], h.Sequence)
	binary.BigEndian.PutUint32(buf[4:8], MagicCookie)
	binary.BigEndian.PutUint32(buf[8:12], h.SSRC)
	lengthWords := uint16((HeaderBytes + bodyLen) / WordSize)
	binary.BigEndian.PutUint16(buf[12:14], lengthWords)
	binary.BigEndian.PutUint16(buf[14:16], 0) // reserved, must be zero
	copy(buf[16:24], h.Type[:])
}

func parseHeader(buf []byte) (Header, uint16, error) {
	if len(buf) < HeaderBytes {
		return Header{}, 0, newErr(ErrTruncatedBody, "packet shorter than fixed header")
	}
	if binary.BigEndian.Uint16(buf[0:2]) != Preamble {
		return Header{}, 0, newErr(ErrBadMagic, "bad preamble")
	}
	if binary.BigEndian.Uint32(buf[4:8]) != MagicCookie {
		return Header{}, 0, newErr(ErrBadMagic, "bad magic cookie")
	}
	var h Header
	h.Sequence = binary.BigEndian.Uint16(buf[2:4])
	h.SSRC = binary.BigEndian.Uint32(buf[8:12])
	lengthWords := binary.BigEndian.Uint16(buf[12:14])
	copy(h.Type[:], buf[16:24])
	return h, lengthWords, nil
}
