package cache

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/chacha20poly1305"

	domaintypes "zrtp/internal/domain/types"
)

// ErrWrongPassphrase is returned by Unseal, and so by ImportSealed, when the passphrase does not
// match the sealed export (spec §6, cache portability).
var ErrWrongPassphrase = errors.New("cache: wrong passphrase or corrupted export")

const sealFormatVersion = 1

type sealedBlob struct {
	V       int    `json:"v"`
	Salt    []byte `json:"salt"`
	Nonce   []byte `json:"nonce"`
	Cipher  []byte `json:"cipher"`
}

// argon2Params fixes the tunable KDF parameters used to derive the
// at-rest encryption key from a passphrase.
func argon2Params() (time, memory uint32, threads uint8) { return 3, 64 * 1024, 4 }

// Seal encrypts a snapshot of every record in a FileCache-shaped store
// under a passphrase, for moving a cache between hosts without leaving
// retained secrets on a transport medium in the clear.
func Seal(passphrase string, records map[string]domaintypes.ZIDRecord) ([]byte, error) {
	plain := make(map[string]diskRecord, len(records))
	for k, r := range records {
		plain[k] = toDisk(r)
	}
	raw, err := json.Marshal(plain)
	if err != nil {
		return nil, err
	}

	var salt [16]byte
	if _, err := rand.Read(salt[:]); err != nil {
		return nil, err
	}
	timeCost, memCost, threads := argon2Params()
	key := argon2.IDKey([]byte(passphrase), salt[:], timeCost, memCost, threads, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}
	ct := aead.Seal(nil, nonce, raw, salt[:])

	return json.Marshal(sealedBlob{V: sealFormatVersion, Salt: salt[:], Nonce: nonce, Cipher: ct})
}

// Unseal reverses Seal, returning the decrypted record snapshot.
func Unseal(passphrase string, blob []byte) (map[string]domaintypes.ZIDRecord, error) {
	var sb sealedBlob
	if err := json.Unmarshal(blob, &sb); err != nil {
		return nil, fmt.Errorf("cache: decoding sealed export: %w", err)
	}
	if sb.V != sealFormatVersion {
		return nil, fmt.Errorf("cache: unsupported sealed export version %d", sb.V)
	}
	timeCost, memCost, threads := argon2Params()
	key := argon2.IDKey([]byte(passphrase), sb.Salt, timeCost, memCost, threads, chacha20poly1305.KeySize)

	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	raw, err := aead.Open(nil, sb.Nonce, sb.Cipher, sb.Salt)
	if err != nil {
		return nil, ErrWrongPassphrase
	}

	var plain map[string]diskRecord
	if err := json.Unmarshal(raw, &plain); err != nil {
		return nil, err
	}
	out := make(map[string]domaintypes.ZIDRecord, len(plain))
	for k, d := range plain {
		out[k] = fromDisk(d)
	}
	return out, nil
}
