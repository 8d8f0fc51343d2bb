package interfaces

import domaintypes "zrtp/internal/domain/types"

// Cache is the ZID-keyed persistent retained-secret store (spec §4.3). The
// core depends only on this contract; concrete backends (file, relational)
// live in internal/cache.
type Cache interface {
	// Open is idempotent: it creates the backing store on first use,
	// generating and persisting a fresh own-ZID record, or opens an
	// existing one.
	Open(path string) error

	// OwnZID returns the local endpoint's persistent identifier.
	OwnZID() domaintypes.ZID

	// Get returns the peer's record. A peer never seen before yields a
	// zeroed record with all flags clear, not an error.
	Get(peer domaintypes.ZID) (domaintypes.ZIDRecord, error)

	// Put upserts a record by its PeerZID.
	Put(record domaintypes.ZIDRecord) error

	// Close releases backing resources. Open may be called again after Close.
	Close() error
}
