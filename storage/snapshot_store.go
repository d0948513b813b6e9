package storage

import (
	"bytes"
	"fmt"

	"github.com/colorfulnotion/atvm/aterrors"
	"github.com/colorfulnotion/atvm/common"
	"github.com/colorfulnotion/atvm/log"
	"github.com/syndtr/goleveldb/leveldb"
	leveldbstorage "github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

var snapshotPrefix = []byte("snap/")

// SnapshotStore keeps named machine snapshots in LevelDB. Each value is the
// blake2b digest of the snapshot followed by the snapshot bytes.
type SnapshotStore struct {
	db *leveldb.DB
}

// SnapshotInfo describes one stored snapshot.
type SnapshotInfo struct {
	Name   string
	Digest common.Hash
	Size   int
}

// NewSnapshotStore opens or creates a LevelDB database at the given path.
// If path is empty, uses in-memory storage.
func NewSnapshotStore(path string) (*SnapshotStore, error) {
	var db *leveldb.DB
	var err error

	if path == "" {
		db, err = leveldb.Open(leveldbstorage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database at %s: %w", path, err)
	}
	return &SnapshotStore{db: db}, nil
}

func snapshotKey(name string) []byte {
	return append(append([]byte(nil), snapshotPrefix...), name...)
}

// Put stores snapshot under name, replacing any earlier one, and returns its digest.
func (s *SnapshotStore) Put(name string, snapshot []byte) (common.Hash, error) {
	digest := common.Blake2Hash(snapshot)
	value := make([]byte, 0, len(digest)+len(snapshot))
	value = append(value, digest.Bytes()...)
	value = append(value, snapshot...)
	if err := s.db.Put(snapshotKey(name), value, nil); err != nil {
		return common.Hash{}, fmt.Errorf("Put %s: %w", name, err)
	}
	log.Debug(log.StoreMonitoring, "snapshot stored", "name", name, "digest", digest.String_short(), "bytes", len(snapshot))
	return digest, nil
}

// Get returns the snapshot stored under name after checking its digest.
func (s *SnapshotStore) Get(name string) ([]byte, error) {
	value, err := s.db.Get(snapshotKey(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, fmt.Errorf("%s: %w", name, aterrors.ErrSNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("Get %s: %w", name, err)
	}
	if len(value) < len(common.Hash{}) {
		return nil, fmt.Errorf("%s: %w", name, aterrors.ErrSDigestMismatch)
	}
	digest, snapshot := value[:len(common.Hash{})], value[len(common.Hash{}):]
	if !bytes.Equal(digest, common.ComputeHash(snapshot)) {
		return nil, fmt.Errorf("%s: %w", name, aterrors.ErrSDigestMismatch)
	}
	return snapshot, nil
}

func (s *SnapshotStore) Delete(name string) error {
	return s.db.Delete(snapshotKey(name), nil)
}

// List returns the stored snapshots in name order.
func (s *SnapshotStore) List() ([]SnapshotInfo, error) {
	iter := s.db.NewIterator(util.BytesPrefix(snapshotPrefix), nil)
	defer iter.Release()

	var out []SnapshotInfo
	for iter.Next() {
		key, value := iter.Key(), iter.Value()
		info := SnapshotInfo{Name: string(key[len(snapshotPrefix):])}
		if len(value) >= len(common.Hash{}) {
			info.Digest = common.BytesToHash(value[:len(common.Hash{})])
			info.Size = len(value) - len(common.Hash{})
		}
		out = append(out, info)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("List: %w", err)
	}
	return out, nil
}

func (s *SnapshotStore) Close() error {
	return s.db.Close()
}
