// Package crypto adapts the cryptographic primitives spec §1 declares out
// of scope for the core (hash, HMAC, AES-CM, and the DH3k/EC25 key-exchange
// groups) onto the narrow interfaces.Hash/MAC/KeyExchange/StreamCipher
// contracts the wire codec, key schedule, and algorithm registry consume.
//
// Every adapter here is a thin wrapper over a standard-library or
// golang.org/x/crypto primitive; none of them implement cryptography of
// their own. See DESIGN.md for which algorithm registry tags each adapter
// backs. DH4k is served by the DH3k adapter; the remaining tags
// (2FS1/2FS3, SK32/SK64, EC38, E255, E414) are declared but left unwired.
package crypto
