package cache

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domaintypes "zrtp/internal/domain/types"
)

func TestFileCacheOwnZIDPersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cache.json")

	c1 := NewFileCache()
	require.NoError(t, c1.Open(path))
	own := c1.OwnZID()
	require.False(t, own.IsZero())
	require.NoError(t, c1.Close())

	c2 := NewFileCache()
	require.NoError(t, c2.Open(path))
	require.Equal(t, own, c2.OwnZID())
}

func TestFileCacheGetUnknownPeerIsZeroedNotError(t *testing.T) {
	c := NewFileCache()
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "cache.json")))

	peer := domaintypes.ZID{1, 2, 3}
	r, err := c.Get(peer)
	require.NoError(t, err)
	require.Equal(t, peer, r.PeerZID)
	require.Zero(t, r.Flags)
}

func TestFileCachePutGetRoundTrip(t *testing.T) {
	c := NewFileCache()
	require.NoError(t, c.Open(filepath.Join(t.TempDir(), "cache.json")))

	peer := domaintypes.ZID{9, 9, 9, 9}
	var record domaintypes.ZIDRecord
	record.PeerZID = peer
	record.SetNewRS1([32]byte{1, 2, 3}, domaintypes.DefaultRSExpireSeconds)
	require.NoError(t, c.Put(record))

	got, err := c.Get(peer)
	require.NoError(t, err)
	require.True(t, got.RS1Valid())
	require.False(t, got.RS2Valid())
	require.Equal(t, record.RS1, got.RS1)
}

func TestSetNewRS1ShiftsPreviousIntoRS2(t *testing.T) {
	var record domaintypes.ZIDRecord
	record.SetNewRS1([32]byte{1}, domaintypes.DefaultRSExpireSeconds)
	first := record.RS1
	record.SetNewRS1([32]byte{2}, domaintypes.DefaultRSExpireSeconds)

	require.Equal(t, first, record.RS2)
	require.True(t, record.RS2Valid())
	require.True(t, record.RS1Valid())
	require.NotEqual(t, record.RS1, record.RS2)
}

func TestSealUnsealRoundTrip(t *testing.T) {
	peer := domaintypes.ZID{4, 5, 6}
	var record domaintypes.ZIDRecord
	record.PeerZID = peer
	record.SetNewRS1([32]byte{7, 7}, -1)

	blob, err := Seal("correct horse battery staple", map[string]domaintypes.ZIDRecord{
		peer.String(): record,
	})
	require.NoError(t, err)

	got, err := Unseal("correct horse battery staple", blob)
	require.NoError(t, err)
	require.Equal(t, record.RS1, got[peer.String()].RS1)

	_, err = Unseal("wrong passphrase", blob)
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestFileCacheExportImportSealedRoundTrip(t *testing.T) {
	c1 := NewFileCache()
	require.NoError(t, c1.Open(filepath.Join(t.TempDir(), "cache.json")))

	peer := domaintypes.ZID{4, 5, 6}
	var record domaintypes.ZIDRecord
	record.PeerZID = peer
	record.SetNewRS1([32]byte{7, 7}, domaintypes.DefaultRSExpireSeconds)
	require.NoError(t, c1.Put(record))

	blob, err := c1.ExportSealed("correct horse battery staple")
	require.NoError(t, err)

	c2 := NewFileCache()
	require.NoError(t, c2.Open(filepath.Join(t.TempDir(), "cache.json")))
	require.NoError(t, c2.ImportSealed("correct horse battery staple", blob))

	require.Equal(t, c1.OwnZID(), c2.OwnZID())
	got, err := c2.Get(peer)
	require.NoError(t, err)
	require.True(t, got.RS1Valid())
	require.Equal(t, record.RS1, got.RS1)

	err = c2.ImportSealed("wrong passphrase", blob)
	require.ErrorIs(t, err, ErrWrongPassphrase)
}
