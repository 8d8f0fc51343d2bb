// Package config assembles a ready-to-run statemachine.Session from a
// recognized-options table, the way internal/app split runtime wiring from
// its Config in the CLI this package replaces.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"zrtp/internal/algo"
	"zrtp/internal/cache"
	"zrtp/internal/domain/interfaces"
	"zrtp/internal/statemachine"
)

// CacheBackend selects which interfaces.Cache implementation Build opens.
type CacheBackend int

const (
	// CacheFile backs the ZID cache with a JSON document (internal/cache.FileCache).
	CacheFile CacheBackend = iota
	// CacheSQL backs the ZID cache with SQLite (internal/cache.SQLCache).
	CacheSQL
)

// Config holds the recognized options table spec §6 describes: algorithm
// preference lists, trusted-mitm handling, sas-sign-support, paranoid
// mode, the disclosure flag, and where the ZID cache lives.
type Config struct {
	Home string // cache/config directory, e.g. $HOME/.zrtp-endpoint

	ClientID string
	Version  string
	SSRC     uint32

	// Registry overrides the default algorithm preference order (spec
	// §4.2). Zero value means algo.Default().
	Registry *algo.Registry

	CacheBackend CacheBackend

	// Passive marks an endpoint that never sends Commit (spec §4.5).
	Passive bool

	// ParanoidMode refuses to fall back to the Mandatory algorithm set
	// silently: a family with no overlap against the peer's Hello is
	// treated as a hard failure instead of the spec §4.2 mandatory
	// fallback. This is a local policy layered on top of algo.Select, not
	// a wire-visible option.
	ParanoidMode bool

	// SASSignSupport and DisclosureFlag map directly onto
	// statemachine.Config's like-named fields (spec §6).
	SASSignSupport bool
	DisclosureFlag bool

	// MultiStream/MasterZRTPSess/PreShared pass straight through to
	// statemachine.Config: Build imposes no policy on which mode a caller
	// wants beyond opening the right cache.
	MultiStream    bool
	MasterZRTPSess []byte
	PreShared      bool

	Logger *logrus.Entry
}

// Build opens the configured cache backend and constructs a
// statemachine.Session wired to it and to callback (spec §4.6's host
// contract). It is this module's analogue of app.NewWire: the CLI and
// tests should call Build rather than constructing a Session by hand.
func Build(cfg Config, callback interfaces.Callback) (*statemachine.Session, interfaces.Cache, error) {
	if cfg.Home == "" {
		dir, err := os.UserHomeDir()
		if err != nil {
			return nil, nil, fmt.Errorf("config: resolve home: %w", err)
		}
		cfg.Home = filepath.Join(dir, ".zrtp-endpoint")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, nil, fmt.Errorf("config: create home: %w", err)
	}

	if cfg.Logger != nil {
		statemachine.SetLogger(cfg.Logger)
	}

	var c interfaces.Cache
	switch cfg.CacheBackend {
	case CacheSQL:
		c = cache.NewSQLCache()
		if err := c.Open(filepath.Join(cfg.Home, "zidcache.sqlite")); err != nil {
			return nil, nil, fmt.Errorf("config: open sql cache: %w", err)
		}
	default:
		c = cache.NewFileCache()
		if err := c.Open(filepath.Join(cfg.Home, "zidcache.json")); err != nil {
			return nil, nil, fmt.Errorf("config: open file cache: %w", err)
		}
	}

	registry := algo.Default()
	if cfg.Registry != nil {
		registry = *cfg.Registry
	}

	scfg := statemachine.Config{
		ClientID:       cfg.ClientID,
		Version:        cfg.Version,
		SSRC:           cfg.SSRC,
		Registry:       registry,
		Passive:        cfg.Passive,
		SASSignSupport: cfg.SASSignSupport,
		ParanoidMode:   cfg.ParanoidMode,
		DisclosureFlag: cfg.DisclosureFlag,
		MultiStream:    cfg.MultiStream,
		MasterZRTPSess: cfg.MasterZRTPSess,
		PreShared:      cfg.PreShared,
	}

	return statemachine.New(scfg, c, callback), c, nil
}
