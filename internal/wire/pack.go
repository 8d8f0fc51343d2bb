package wire

import "encoding/binary"

// builder accumulates a message body, padding to a word boundary once
// (spec §8: every encoded packet length is a multiple of 4).
type builder struct {
	buf []byte
}

func (b *builder) byte(v byte)             { b.buf = append(b.buf, v) }
func (b *builder) bytes(v []byte)          { b.buf = append(b.buf, v...) }
func (b *builder) u16(v uint16) {
	var tmp [2]byte
	binary.BigEndian.PutUint16(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}
func (b *builder) u32(v uint32) {
	var tmp [4]byte
	binary.BigEndian.PutUint32(tmp[:], v)
	b.buf = append(b.buf, tmp[:]...)
}
func (b *builder) i32(v int32) { b.u32(uint32(v)) }
func (b *builder) bool8(v bool) {
	if v {
		b.byte(1)
	} else {
		b.byte(0)
	}
}

// lenPrefixed writes a uint16 length followed by v, used for the
// variable-width fields (algorithm lists, public keys, ciphertext) that
// don't have a fixed wire width.
func (b *builder) lenPrefixed(v []byte) {
	b.u16(uint16(len(v)))
	b.bytes(v)
}

func (b *builder) padToWord() {
	for len(b.buf)%WordSize != 0 {
		b.byte(0)
	}
}

func (b *builder) bytesN(v []byte, n int) {
	var tmp = make([]byte, n)
	copy(tmp, v)
	b.buf = append(b.buf, tmp...)
}

// reader walks a body written by builder, tracking truncation.
type reader struct {
	buf []byte
	off int
	err error
}

func (r *reader) need(n int) bool {
	if r.err != nil {
		return false
	}
	if r.off+n > len(r.buf) {
		r.err = newErr(ErrTruncatedBody, "message body shorter than expected")
		return false
	}
	return true
}

func (r *reader) fixed(n int) []byte {
	if !r.need(n) {
		return make([]byte, n)
	}
	v := r.buf[r.off : r.off+n]
	r.off += n
	return v
}

func (r *reader) u16() uint16 {
	v := r.fixed(2)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint16(v)
}

func (r *reader) u32() uint32 {
	v := r.fixed(4)
	if r.err != nil {
		return 0
	}
	return binary.BigEndian.Uint32(v)
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) bool8() bool {
	v := r.fixed(1)
	if r.err != nil {
		return false
	}
	return v[0] != 0
}

func (r *reader) lenPrefixed() []byte {
	n := int(r.u16())
	if r.err != nil {
		return nil
	}
	out := r.fixed(n)
	if r.err != nil {
		return nil
	}
	dup := make([]byte, n)
	copy(dup, out)
	return dup
}
