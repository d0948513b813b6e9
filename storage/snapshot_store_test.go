package storage

import (
	"testing"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotStore(t *testing.T) {
	s, err := NewSnapshotStore("")
	require.NoError(t, err)
	defer s.Close()

	digest, err := s.Put("b", []byte{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, common.Blake2Hash([]byte{1, 2, 3}), digest)
	_, err = s.Put("a", []byte{9})
	require.NoError(t, err)

	got, err := s.Get("b")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, got)

	list, err := s.List()
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].Name)
	assert.Equal(t, "b", list[1].Name)
	assert.Equal(t, 3, list[1].Size)
	assert.Equal(t, digest, list[1].Digest)

	require.NoError(t, s.Delete("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, aterrors.ErrSNotFound)
}

func TestSnapshotStoreDetectsCorruption(t *testing.T) {
	s, err := NewSnapshotStore("")
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Put("x", []byte{1, 2, 3})
	require.NoError(t, err)

	raw, err := s.db.Get(snapshotKey("x"), nil)
	require.NoError(t, err)
	raw[len(raw)-1] ^= 0xff
	require.NoError(t, s.db.Put(snapshotKey("x"), raw, nil))
	_, err = s.Get("x")
	assert.ErrorIs(t, err, aterrors.ErrSDigestMismatch)

	require.NoError(t, s.db.Put(snapshotKey("y"), []byte{1}, nil))
	_, err = s.Get("y")
	assert.ErrorIs(t, err, aterrors.ErrSDigestMismatch)

	// other key spaces are not listed
	require.NoError(t, s.db.Put([]byte("other"), []byte{1}, nil))
	list, err := s.List()
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestSnapshotStoreOnDisk(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSnapshotStore(dir)
	require.NoError(t, err)
	_, err = s.Put("keep", []byte{7})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = NewSnapshotStore(dir)
	require.NoError(t, err)
	defer s.Close()
	got, err := s.Get("keep")
	require.NoError(t, err)
	assert.Equal(t, []byte{7}, got)
}
