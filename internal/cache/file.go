package cache

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

// Compile-time assertion that FileCache implements interfaces.Cache.
var _ interfaces.Cache = (*FileCache)(nil)

// diskRecord is the JSON-on-disk shape of a domaintypes.ZIDRecord; fixed
// arrays round-trip through encoding/json as base64 strings.
type diskRecord struct {
	PeerZID        string `json:"peer_zid"`
	RS1            []byte `json:"rs1"`
	RS1ValidThru   int64  `json:"rs1_valid_thru"`
	RS2            []byte `json:"rs2"`
	RS2ValidThru   int64  `json:"rs2_valid_thru"`
	MiTMKey        []byte `json:"mitm_key"`
	Flags          uint32 `json:"flags"`
	CreatedUTC     int64  `json:"created_utc"`
	LastUsedUTC    int64  `json:"last_used_utc"`
	SecureSinceUTC int64  `json:"secure_since_utc"`
}

func toDisk(r domaintypes.ZIDRecord) diskRecord {
	return diskRecord{
		PeerZID:        r.PeerZID.String(),
		RS1:            append([]byte(nil), r.RS1[:]...),
		RS1ValidThru:   r.RS1ValidThru,
		RS2:            append([]byte(nil), r.RS2[:]...),
		RS2ValidThru:   r.RS2ValidThru,
		MiTMKey:        append([]byte(nil), r.MiTMKey[:]...),
		Flags:          uint32(r.Flags),
		CreatedUTC:     r.CreatedUTC,
		LastUsedUTC:    r.LastUsedUTC,
		SecureSinceUTC: r.SecureSinceUTC,
	}
}

func fromDisk(d diskRecord) domaintypes.ZIDRecord {
	var r domaintypes.ZIDRecord
	if raw, err := hex.DecodeString(d.PeerZID); err == nil {
		copy(r.PeerZID[:], raw)
	}
	copy(r.RS1[:], d.RS1)
	r.RS1ValidThru = d.RS1ValidThru
	copy(r.RS2[:], d.RS2)
	r.RS2ValidThru = d.RS2ValidThru
	copy(r.MiTMKey[:], d.MiTMKey)
	r.Flags = domaintypes.ZIDRecordFlags(d.Flags)
	r.CreatedUTC = d.CreatedUTC
	r.LastUsedUTC = d.LastUsedUTC
	r.SecureSinceUTC = d.SecureSinceUTC
	return r
}

const ownKey = "own"

// FileCache is the JSON-document file backend for the ZID cache (spec §6):
// one JSON document keyed by ZID hex string, with the own-ZID record
// stored under a reserved key so it survives even before any peer is
// known.
type FileCache struct {
	mu     sync.Mutex
	path   string
	ownZID domaintypes.ZID
}

// NewFileCache constructs an unopened FileCache. Call Open before use.
func NewFileCache() *FileCache { return &FileCache{} }

func (c *FileCache) Open(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.path = path
	records, err := c.readAll()
	if err != nil {
		return err
	}
	if own, ok := records[ownKey]; ok {
		raw, err := hex.DecodeString(own.PeerZID)
		if err != nil {
			return fmt.Errorf("cache: decoding own zid: %w", err)
		}
		copy(c.ownZID[:], raw)
		return nil
	}

	var zid domaintypes.ZID
	if _, err := rand.Read(zid[:]); err != nil {
		return fmt.Errorf("cache: generating own zid: %w", err)
	}
	c.ownZID = zid
	ownRecord := domaintypes.ZIDRecord{PeerZID: zid, Flags: domaintypes.FlagOwnZIDRecord}
	records[ownKey] = toDisk(ownRecord)
	return c.writeAll(records)
}

func (c *FileCache) OwnZID() domaintypes.ZID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownZID
}

func (c *FileCache) Get(peer domaintypes.ZID) (domaintypes.ZIDRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll()
	if err != nil {
		return domaintypes.ZIDRecord{}, err
	}
	d, ok := records[peer.String()]
	if !ok {
		return domaintypes.ZIDRecord{PeerZID: peer}, nil
	}
	r := fromDisk(d)
	r.PeerZID = peer
	return r, nil
}

func (c *FileCache) Put(record domaintypes.ZIDRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll()
	if err != nil {
		return err
	}
	key := record.PeerZID.String()
	if record.Flags&domaintypes.FlagOwnZIDRecord != 0 {
		key = ownKey
	}
	records[key] = toDisk(record)
	return c.writeAll(records)
}

// List returns every peer record this cache holds, keyed by ZID hex
// string, excluding the reserved own-ZID entry. Used by the cache
// inspection tooling (spec §6's "dump cache records" surface).
func (c *FileCache) List() (map[string]domaintypes.ZIDRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]domaintypes.ZIDRecord, len(records))
	for k, d := range records {
		if k == ownKey {
			continue
		}
		r := fromDisk(d)
		var zid domaintypes.ZID
		if raw, err := hex.DecodeString(k); err == nil {
			copy(zid[:], raw)
		}
		r.PeerZID = zid
		out[k] = r
	}
	return out, nil
}

// ExportSealed encrypts every record this cache holds, including the
// own-ZID record, under a passphrase (spec §6, cache portability). The
// blob is safe to copy over an untrusted transport; only ImportSealed
// with the matching passphrase can recover it.
func (c *FileCache) ExportSealed(passphrase string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	records, err := c.readAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]domaintypes.ZIDRecord, len(records))
	for k, d := range records {
		r := fromDisk(d)
		if k == ownKey {
			r.PeerZID = c.ownZID
		} else if raw, err := hex.DecodeString(k); err == nil {
			copy(r.PeerZID[:], raw)
		}
		out[k] = r
	}
	return Seal(passphrase, out)
}

// ImportSealed decrypts a blob produced by ExportSealed and merges its
// records into this cache, overwriting any existing entry under the
// same key. If the blob carries an own-ZID record this cache adopts its
// identity, matching the "move state to a new host" use case.
func (c *FileCache) ImportSealed(passphrase string, blob []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	imported, err := Unseal(passphrase, blob)
	if err != nil {
		return err
	}
	records, err := c.readAll()
	if err != nil {
		return err
	}
	for k, r := range imported {
		records[k] = toDisk(r)
	}
	if own, ok := imported[ownKey]; ok {
		c.ownZID = own.PeerZID
	}
	return c.writeAll(records)
}

func (c *FileCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = ""
	return nil
}

func (c *FileCache) readAll() (map[string]diskRecord, error) {
	m := make(map[string]diskRecord)
	if c.path == "" {
		return m, nil
	}
	b, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return m, nil
	}
	if err != nil {
		return nil, err
	}
	if len(b) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("cache: decoding %s: %w", c.path, err)
	}
	return m, nil
}

func (c *FileCache) writeAll(records map[string]diskRecord) error {
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return err
	}
	dir := filepath.Dir(c.path)
	f, err := os.CreateTemp(dir, filepath.Base(c.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	defer func() { _ = os.Remove(tmp) }()

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, c.path)
}
