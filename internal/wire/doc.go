// Package wire implements the ZRTP binary message codec (spec §4.1): the
// common 4-byte-word header, per-message body layouts from RFC 6189 §5,
// CRC-32 packet integrity, and the machinery the state machine uses to
// defer HMAC verification until the key that authenticates a message is
// revealed by the next one in sequence.
//
// The codec never decides whether a message is acceptable at the protocol
// level (that is the state machine's job, spec §4.5); it only enforces the
// header/length/alignment/CRC invariants spec §4.1 and §8 name, and it
// leaves HMAC verification to the caller once the corresponding hash-chain
// key is known.
package wire
