package interfaces

// The core treats every cryptographic primitive as an external
// collaborator (spec §1): it never implements a hash, cipher, MAC, or DH
// group itself, only drives one through these capability interfaces. See
// internal/crypto for the concrete adapters wired into the algorithm
// registry.

// Hash is a keyless cryptographic digest.
type Hash interface {
	Sum(data ...[]byte) []byte
	Size() int
}

// MAC is a keyed message-authentication primitive.
type MAC interface {
	Sum(key []byte, data ...[]byte) []byte
	Size() int
}

// KeyExchange is a Diffie-Hellman-shaped key-agreement primitive: generate
// an ephemeral keypair, then combine a private key with a peer's public key
// to produce a shared secret. Fixed finite-field groups (DH3k/DH4k) and
// elliptic-curve groups (EC25/EC38) both implement this the same way.
type KeyExchange interface {
	GenerateKeypair() (priv, pub []byte, err error)
	SharedSecret(priv, peerPub []byte) ([]byte, error)
	PublicKeyLen() int
}

// StreamCipher is the stream/block cipher used to protect Confirm bodies
// (AES-CM keyed by zrtpkey) and, separately, SRTP itself once activated.
type StreamCipher interface {
	// XORKeyStream produces AES-CM/CTR-mode keystream XORed with src into dst.
	XORKeyStream(key, iv, src []byte) ([]byte, error)
	KeyLen() int
}
