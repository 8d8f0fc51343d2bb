package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
)

// AESCM implements interfaces.StreamCipher as AES in counter mode, backing
// registry tag AES1 (128-bit key, mandatory-to-implement) and AES3
// (256-bit key). AES-CM is exactly CTR mode with a 16-byte IV, which is
// what crypto/cipher.NewCTR already provides; there is nothing ZRTP-specific
// to add on top.
type AESCM struct {
	KeyBytes int // 16 for AES1, 32 for AES3
}

func (a AESCM) KeyLen() int { return a.KeyBytes }

func (a AESCM) XORKeyStream(key, iv, src []byte) ([]byte, error) {
	if len(key) != a.KeyBytes {
		return nil, fmt.Errorf("crypto: AES-CM key must be %d bytes, got %d", a.KeyBytes, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	if len(iv) != block.BlockSize() {
		return nil, fmt.Errorf("crypto: AES-CM IV must be %d bytes, got %d", block.BlockSize(), len(iv))
	}
	stream := cipher.NewCTR(block, iv)
	dst := make([]byte, len(src))
	stream.XORKeyStream(dst, src)
	return dst, nil
}
