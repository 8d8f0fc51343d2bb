package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
)

// X25519KeyExchange implements interfaces.KeyExchange over
// golang.org/x/crypto/curve25519, backing registry tag EC25.
type X25519KeyExchange struct{}

func (X25519KeyExchange) PublicKeyLen() int { return 32 }

func (X25519KeyExchange) GenerateKeypair() (priv, pub []byte, err error) {
	priv = make([]byte, 32)
	if _, err = rand.Read(priv); err != nil {
		return nil, nil, err
	}
	priv[0] &= 248
	priv[31] &= 127
	priv[31] |= 64

	pub, err = curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, nil, err
	}
	return priv, pub, nil
}

func (X25519KeyExchange) SharedSecret(priv, peerPub []byte) ([]byte, error) {
	return curve25519.X25519(priv, peerPub)
}
