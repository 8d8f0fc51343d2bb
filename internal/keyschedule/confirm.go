package keyschedule

import (
	"crypto/hmac"
	"crypto/rand"

	"zrtp/internal/domain/interfaces"
)

// SealConfirm encrypts a Confirm body under zrtpkey with AES-CM and MACs
// the ciphertext with mackey, truncated to 8 bytes (spec §4.4): the
// wire-visible Confirm1/Confirm2 fields (MAC, IV, encrypted body) that
// internal/wire.EncodeConfirm expects.
func SealConfirm(cipher interfaces.StreamCipher, mac interfaces.MAC, zrtpKey, macKey, plaintext []byte) (ciphertext, iv []byte, macTag [8]byte, err error) {
	iv = make([]byte, 16)
	if _, err = rand.Read(iv); err != nil {
		return nil, nil, macTag, err
	}
	ciphertext, err = cipher.XORKeyStream(zrtpKey, iv, plaintext)
	if err != nil {
		return nil, nil, macTag, err
	}
	tag := mac.Sum(macKey, ciphertext)
	copy(macTag[:], tag)
	return ciphertext, iv, macTag, nil
}

// OpenConfirm decrypts and authenticates a received Confirm body. ok is
// false when the MAC doesn't match; the state machine should treat that
// as ConfirmHMACWrong (spec §4.5, §7) rather than trying to use the
// decrypted plaintext.
func OpenConfirm(cipher interfaces.StreamCipher, mac interfaces.MAC, zrtpKey, macKey, ciphertext, iv []byte, wantMAC [8]byte) (plaintext []byte, ok bool, err error) {
	tag := mac.Sum(macKey, ciphertext)
	if !hmac.Equal(tag[:8], wantMAC[:]) {
		return nil, false, nil
	}
	plaintext, err = cipher.XORKeyStream(zrtpKey, iv, ciphertext)
	if err != nil {
		return nil, false, err
	}
	return plaintext, true, nil
}
