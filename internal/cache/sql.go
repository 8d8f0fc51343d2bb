package cache

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"zrtp/internal/domain/interfaces"
	domaintypes "zrtp/internal/domain/types"
)

const schema = `
CREATE TABLE IF NOT EXISTS zid_records (
	peer_zid TEXT PRIMARY KEY,
	rs1 BLOB NOT NULL,
	rs1_valid_thru INTEGER NOT NULL,
	rs2 BLOB NOT NULL,
	rs2_valid_thru INTEGER NOT NULL,
	mitm_key BLOB NOT NULL,
	flags INTEGER NOT NULL,
	created_utc INTEGER NOT NULL,
	last_used_utc INTEGER NOT NULL,
	secure_since_utc INTEGER NOT NULL
);`

// SQLCache is the relational ZID cache backend (spec §3 component 3): the
// same abstract contract as FileCache, backed by a SQLite table instead of
// a JSON document, for deployments that already keep other state in a
// relational store.
type SQLCache struct {
	mu     sync.Mutex
	db     *sql.DB
	ownZID domaintypes.ZID
}

func NewSQLCache() *SQLCache { return &SQLCache{} }

func (c *SQLCache) Open(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("cache: opening sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return fmt.Errorf("cache: creating schema: %w", err)
	}
	c.db = db

	own, err := c.get(ownKey)
	if err != nil {
		return err
	}
	if own != nil {
		c.ownZID = own.PeerZID
		return nil
	}

	var zid domaintypes.ZID
	if _, err := rand.Read(zid[:]); err != nil {
		return fmt.Errorf("cache: generating own zid: %w", err)
	}
	c.ownZID = zid
	return c.put(ownKey, domaintypes.ZIDRecord{PeerZID: zid, Flags: domaintypes.FlagOwnZIDRecord})
}

func (c *SQLCache) OwnZID() domaintypes.ZID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ownZID
}

func (c *SQLCache) Get(peer domaintypes.ZID) (domaintypes.ZIDRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.get(peer.String())
	if err != nil {
		return domaintypes.ZIDRecord{}, err
	}
	if r == nil {
		return domaintypes.ZIDRecord{PeerZID: peer}, nil
	}
	return *r, nil
}

func (c *SQLCache) Put(record domaintypes.ZIDRecord) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := record.PeerZID.String()
	if record.Flags&domaintypes.FlagOwnZIDRecord != 0 {
		key = ownKey
	}
	return c.put(key, record)
}

// List returns every peer record this cache holds, keyed by ZID hex
// string, excluding the reserved own-ZID entry.
func (c *SQLCache) List() (map[string]domaintypes.ZIDRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.db.Query(`SELECT peer_zid, rs1, rs1_valid_thru, rs2, rs2_valid_thru,
		mitm_key, flags, created_utc, last_used_utc, secure_since_utc
		FROM zid_records WHERE peer_zid != ?`, ownKey)
	if err != nil {
		return nil, fmt.Errorf("cache: listing records: %w", err)
	}
	defer rows.Close()

	out := make(map[string]domaintypes.ZIDRecord)
	for rows.Next() {
		var d diskRecord
		if err := rows.Scan(&d.PeerZID, &d.RS1, &d.RS1ValidThru, &d.RS2, &d.RS2ValidThru,
			&d.MiTMKey, &d.Flags, &d.CreatedUTC, &d.LastUsedUTC, &d.SecureSinceUTC); err != nil {
			return nil, fmt.Errorf("cache: scanning record: %w", err)
		}
		r := fromDisk(d)
		var zid domaintypes.ZID
		if raw, err := hex.DecodeString(d.PeerZID); err == nil {
			copy(zid[:], raw)
		}
		r.PeerZID = zid
		out[d.PeerZID] = r
	}
	return out, rows.Err()
}

func (c *SQLCache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

func (c *SQLCache) get(key string) (*domaintypes.ZIDRecord, error) {
	row := c.db.QueryRow(`SELECT peer_zid, rs1, rs1_valid_thru, rs2, rs2_valid_thru,
		mitm_key, flags, created_utc, last_used_utc, secure_since_utc
		FROM zid_records WHERE peer_zid = ?`, key)

	var d diskRecord
	err := row.Scan(&d.PeerZID, &d.RS1, &d.RS1ValidThru, &d.RS2, &d.RS2ValidThru,
		&d.MiTMKey, &d.Flags, &d.CreatedUTC, &d.LastUsedUTC, &d.SecureSinceUTC)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cache: querying %s: %w", key, err)
	}
	r := fromDisk(d)
	return &r, nil
}

func (c *SQLCache) put(key string, record domaintypes.ZIDRecord) error {
	d := toDisk(record)
	_, err := c.db.Exec(`INSERT INTO zid_records
		(peer_zid, rs1, rs1_valid_thru, rs2, rs2_valid_thru, mitm_key, flags,
		 created_utc, last_used_utc, secure_since_utc)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(peer_zid) DO UPDATE SET
			rs1=excluded.rs1, rs1_valid_thru=excluded.rs1_valid_thru,
			rs2=excluded.rs2, rs2_valid_thru=excluded.rs2_valid_thru,
			mitm_key=excluded.mitm_key, flags=excluded.flags,
			created_utc=excluded.created_utc, last_used_utc=excluded.last_used_utc,
			secure_since_utc=excluded.secure_since_utc`,
		key, d.RS1, d.RS1ValidThru, d.RS2, d.RS2ValidThru, d.MiTMKey, d.Flags,
		d.CreatedUTC, d.LastUsedUTC, d.SecureSinceUTC)
	if err != nil {
		return fmt.Errorf("cache: upserting %s: %w", key, err)
	}
	return nil
}

// Compile-time assertion that SQLCache implements interfaces.Cache.
var _ interfaces.Cache = (*SQLCache)(nil)
