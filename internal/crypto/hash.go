package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/sha512"
)

// SHA256 implements interfaces.Hash over crypto/sha256, backing algorithm
// registry tag S256 (mandatory-to-implement, spec §4.2).
type SHA256 struct{}

func (SHA256) Sum(data ...[]byte) []byte {
	h := sha256.New()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
func (SHA256) Size() int { return sha256.Size }

// SHA384 implements interfaces.Hash over crypto/sha512.Sum384, backing tag
// S384.
type SHA384 struct{}

func (SHA384) Sum(data ...[]byte) []byte {
	h := sha512.New384()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
func (SHA384) Size() int { return sha512.Size384 }

// HMACSHA256 implements interfaces.MAC over crypto/hmac+sha256.
type HMACSHA256 struct{}

func (HMACSHA256) Sum(key []byte, data ...[]byte) []byte {
	m := hmac.New(sha256.New, key)
	for _, d := range data {
		m.Write(d)
	}
	return m.Sum(nil)
}
func (HMACSHA256) Size() int { return sha256.Size }

// HMACSHA384 implements interfaces.MAC over crypto/hmac+sha512.New384, used
// when S384 forces the whole suite to its stronger companions (spec §4.2).
type HMACSHA384 struct{}

func (HMACSHA384) Sum(key []byte, data ...[]byte) []byte {
	m := hmac.New(sha512.New384, key)
	for _, d := range data {
		m.Write(d)
	}
	return m.Sum(nil)
}
func (HMACSHA384) Size() int { return sha512.Size384 }

// TruncatedMAC truncates a MAC's output to n bytes, matching the wire
// codec's 8-byte packet-authentication tag (spec §4.1) and the 4/10-byte
// SRTP auth-tag lengths (HS32/HS80).
func TruncatedMAC(m []byte, n int) []byte {
	if n > len(m) {
		n = len(m)
	}
	return m[:n]
}
